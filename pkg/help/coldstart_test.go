package help

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestColdstartYAMLParses(t *testing.T) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(ColdstartYAML), &doc); err != nil {
		t.Fatalf("ColdstartYAML is not valid YAML: %v", err)
	}
	for _, key := range []string{"commands", "widget", "moods", "config_file", "tui_keys", "error_behavior"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing section %q", key)
		}
	}
}
