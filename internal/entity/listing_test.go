package entity

import "testing"

func TestScrollMetricsNearBottom(t *testing.T) {
	tests := []struct {
		name    string
		metrics ScrollMetrics
		want    bool
	}{
		{"at the bottom", ScrollMetrics{Top: 900, ScrollHeight: 1000, ClientHeight: 100}, true},
		{"within threshold", ScrollMetrics{Top: 860, ScrollHeight: 1000, ClientHeight: 100}, true},
		{"mid feed", ScrollMetrics{Top: 200, ScrollHeight: 1000, ClientHeight: 100}, false},
		{"surface not found", ScrollMetrics{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metrics.NearBottom(); got != tt.want {
				t.Errorf("NearBottom() = %v, want %v for %+v", got, tt.want, tt.metrics)
			}
		})
	}
}
