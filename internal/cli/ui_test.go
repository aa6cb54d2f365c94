package cli

import (
	"strings"
	"testing"

	"github.com/pathscout/pathscout/pkg/route"
)

func TestFormatPath(t *testing.T) {
	out := formatPath([]string{"a", "b", "c"})
	for _, id := range []string{"a", "b", "c"} {
		if !strings.Contains(out, id) {
			t.Errorf("formatted path should contain %s: %s", id, out)
		}
	}
	if strings.Count(out, iconArrow) != 2 {
		t.Errorf("three waypoints need two connectors: %s", out)
	}
}

func TestFormatPathSingleNode(t *testing.T) {
	out := formatPath([]string{"a"})
	if strings.Contains(out, iconArrow) {
		t.Errorf("single waypoint needs no connector: %s", out)
	}
}

func TestPlural(t *testing.T) {
	if plural(1, "route") != "route" {
		t.Error("plural(1) should keep the unit singular")
	}
	if plural(0, "route") != "routes" {
		t.Error("plural(0) should pluralize")
	}
	if plural(3, "hop") != "hops" {
		t.Error("plural(3) should pluralize")
	}
}

func TestGroupCount(t *testing.T) {
	routes := []route.Route{
		{Group: 1, AlternativeIndex: 0},
		{Group: 1, AlternativeIndex: 1},
		{Group: 2, AlternativeIndex: 0},
	}
	if got := groupCount(routes); got != 2 {
		t.Errorf("groupCount = %d, want 2", got)
	}
	if got := groupCount(nil); got != 0 {
		t.Errorf("groupCount(nil) = %d, want 0", got)
	}
}
