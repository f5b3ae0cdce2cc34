package help

import (
	"strings"
	"testing"

	"github.com/nhle/energy-planner/internal/keys"
	"github.com/nhle/energy-planner/internal/model"
)

func TestViewShowsConfiguredEnergyRules(t *testing.T) {
	t.Parallel()

	bounds := model.DefaultAppConfig().Energy
	bounds.MinCeiling = 40
	bounds.RolloverTime = "04:30"

	view := New(keys.DefaultKeyMap(), bounds, 120, 40).View()
	for _, want := range []string{"40 to 500", "04:30", ":budget N", "Keys"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view missing %q", want)
		}
	}
}
