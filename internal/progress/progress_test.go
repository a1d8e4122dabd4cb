package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	tr.Tick()
	tr.FinishSuccess()
	tr.FinishSkipped("nothing to do")
	tr.FinishError(errors.New("boom"))
}

func TestTrackerFinishSkipped(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTrackerTo(&buf, "Analyzing methods", 2)
	tr.Tick()
	tr.FinishSkipped("no changes")

	if !strings.Contains(buf.String(), "Analyzing methods skipped (no changes)") {
		t.Errorf("missing skip message in %q", buf.String())
	}
}

func TestTrackerFinishError(t *testing.T) {
	var buf bytes.Buffer
	tr := NewSpinnerTo(&buf, "Parsing")
	tr.Tick()
	tr.FinishError(errors.New("bad file"))

	if !strings.Contains(buf.String(), "Parsing error: bad file") {
		t.Errorf("missing error message in %q", buf.String())
	}
}
