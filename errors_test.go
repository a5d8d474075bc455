package toonify

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestStageErrorMatching(t *testing.T) {
	err := stageErr(ErrImageLoad, "load", fs.ErrNotExist)
	if !errors.Is(err, ErrImageLoad) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is failed for %v", err)
	}
	if errors.Is(err, ErrImageWrite) {
		t.Error("matched the wrong kind")
	}
	if !strings.HasPrefix(err.Error(), "image load error: load:") {
		t.Errorf("Error() = %q", err.Error())
	}
	var se *StageError
	if !errors.As(err, &se) || se.Stage != "load" {
		t.Errorf("errors.As = %+v", se)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{stageErrf(ErrProcessing, "x", "boom"), ErrProcessing},
		{stageErr(ErrInvalidConfig, "config", nil), ErrInvalidConfig},
		{errors.New("other"), nil},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
