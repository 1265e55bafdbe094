package lighting

import (
	"testing"

	"github.com/chewxy/math32"
)

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestFromAngles(t *testing.T) {
	tests := []struct {
		name      string
		longitude float32
		latitude  float32
		want      [3]float32
	}{
		{"straight up", 0, 90, [3]float32{0, 1, 0}},
		{"horizon north", 0, 0, [3]float32{0, 0, 1}},
		{"horizon east", 90, 0, [3]float32{1, 0, 0}},
		{"at 45 elevation", 0, 45, [3]float32{0, 0.7071, 0.7071}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAngles(tt.longitude, tt.latitude)
			for i := 0; i < 3; i++ {
				if absf(got[i]-tt.want[i]) > 0.001 {
					t.Errorf("FromAngles(%v, %v) = %v, want %v", tt.longitude, tt.latitude, got, tt.want)
					break
				}
			}
		})
	}
}

func TestFromAngles_ReturnsUnitVector(t *testing.T) {
	for _, angles := range [][2]float32{{0, 0}, {45, 30}, {-22, 26}, {180, 80}, {270, 5}} {
		d := FromAngles(angles[0], angles[1])
		length := math32.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
		if absf(length-1) > 0.001 {
			t.Errorf("FromAngles(%v, %v) has length %v, want 1", angles[0], angles[1], length)
		}
	}
}

func TestDefault(t *testing.T) {
	light := Default()

	d := light.Direction
	length := math32.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	if absf(length-1) > 0.001 {
		t.Errorf("default direction has length %v, want 1", length)
	}
	if d[1] <= 0 {
		t.Errorf("default light points downward: %v", d)
	}

	for i := 0; i < 3; i++ {
		sum := light.Ambient[i] + light.Diffuse[i]
		if absf(sum-1) > 0.001 {
			t.Errorf("ambient[%d]+diffuse[%d] = %v, want 1", i, i, sum)
		}
	}
}
