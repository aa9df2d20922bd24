package params

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chady-robot/chady/pkg/robot"
)

func TestParseFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    robot.ParameterSet
		wantErr error
	}{
		{
			name:  "subset",
			input: "vertical_kp: 12.5\nbias: -0.3\n",
			want:  robot.ParameterSet{robot.VerticalKp: 12.5, robot.Bias: -0.3},
		},
		{
			name:  "empty",
			input: "",
			want:  robot.ParameterSet{},
		},
		{
			name:    "unknown name",
			input:   "gain: 1\n",
			wantErr: ErrUnknownParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFile([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFile() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFile() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFile() = %v, want %v", got, tt.want)
			}
			for name, v := range tt.want {
				if got[name] != v {
					t.Errorf("%s = %f, want %f", name, got[name], v)
				}
			}
		})
	}
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	values := robot.NewParameterSet()
	values[robot.TurnSpeed] = 40
	values[robot.TargetAngle] = 1.75

	if err := SaveFile(path, values); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(loaded) != 11 {
		t.Errorf("loaded %d parameters, want 11", len(loaded))
	}
	if loaded[robot.TurnSpeed] != 40 || loaded[robot.TargetAngle] != 1.75 {
		t.Errorf("loaded = %v", loaded)
	}
}
