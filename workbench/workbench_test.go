package workbench

import (
	"testing"

	"resortadmin/normalization"
)

func TestWorkbenchCounts(t *testing.T) {
	wb := New("resorts.csv", []normalization.ResortRecord{
		validRecord(),   // ready
		invalidRecord(), // error
		validRecord(),   // -> skipped
		validRecord(),   // -> warning (undecided duplicate)
	})

	if _, err := wb.Apply(2, SetAction{Action: ActionSkip}); err != nil {
		t.Fatal(err)
	}
	if _, err := wb.Apply(3, MatchResult{Type: MatchExact, MatchedResortID: "abc", Similarity: 1.0}); err != nil {
		t.Fatal(err)
	}

	c := wb.Counts()
	if c.Errors != 1 || c.Warnings != 1 || c.Ready != 1 || c.Skipped != 1 {
		t.Errorf("counts = %+v, want 1 of each status", c)
	}
	if c.Total != 4 {
		t.Errorf("total = %d, want 4", c.Total)
	}
	if c.Checked != 1 {
		t.Errorf("checked = %d, want 1", c.Checked)
	}
	if c.Errors+c.Warnings+c.Ready+c.Skipped != c.Total {
		t.Errorf("status counts do not sum to total: %+v", c)
	}
}

func TestPushEligible(t *testing.T) {
	t.Run("clean ready rows", func(t *testing.T) {
		wb := New("a.csv", []normalization.ResortRecord{validRecord(), validRecord()})
		if !wb.PushEligible() {
			t.Error("workbench with only ready rows must be push eligible")
		}
	})

	t.Run("error blocks push", func(t *testing.T) {
		wb := New("a.csv", []normalization.ResortRecord{validRecord(), invalidRecord()})
		if wb.PushEligible() {
			t.Error("error row must block push")
		}
	})

	t.Run("skipped error unblocks", func(t *testing.T) {
		wb := New("a.csv", []normalization.ResortRecord{validRecord(), invalidRecord()})
		if _, err := wb.Apply(1, SetAction{Action: ActionSkip}); err != nil {
			t.Fatal(err)
		}
		if !wb.PushEligible() {
			t.Error("skipping the error row must unblock push")
		}
	})

	t.Run("undecided duplicate blocks push", func(t *testing.T) {
		wb := New("a.csv", []normalization.ResortRecord{validRecord()})
		if _, err := wb.Apply(0, MatchResult{Type: MatchSimilar, MatchedResortID: "abc", Similarity: 0.8}); err != nil {
			t.Fatal(err)
		}
		if wb.PushEligible() {
			t.Error("undecided duplicate must block push")
		}
	})

	t.Run("all skipped has nothing to push", func(t *testing.T) {
		wb := New("a.csv", []normalization.ResortRecord{validRecord()})
		if _, err := wb.Apply(0, SetAction{Action: ActionSkip}); err != nil {
			t.Fatal(err)
		}
		if wb.PushEligible() {
			t.Error("workbench without ready rows must not be push eligible")
		}
	})

	t.Run("empty workbench", func(t *testing.T) {
		wb := New("empty.csv", nil)
		if wb.PushEligible() {
			t.Error("empty workbench must not be push eligible")
		}
	})
}

func TestApplyOutOfRange(t *testing.T) {
	wb := New("a.csv", []normalization.ResortRecord{validRecord()})

	if _, err := wb.Apply(-1, SetAction{Action: ActionSkip}); err == nil {
		t.Error("negative index must fail")
	}
	if _, err := wb.Apply(1, SetAction{Action: ActionSkip}); err == nil {
		t.Error("index past the end must fail")
	}
	if _, err := wb.Row(5); err == nil {
		t.Error("Row with bad index must fail")
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	wb := New("a.csv", []normalization.ResortRecord{validRecord()})

	rows := wb.Rows()
	rows[0].Action = ActionSkip

	got, err := wb.Row(0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Action == ActionSkip {
		t.Error("mutating the returned slice must not affect the workbench")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	wb := New("a.csv", []normalization.ResortRecord{validRecord()})

	if _, ok := reg.Get(wb.ID); ok {
		t.Error("registry must be empty before Put")
	}

	reg.Put(wb)
	got, ok := reg.Get(wb.ID)
	if !ok || got != wb {
		t.Error("Get must return the registered workbench")
	}

	reg.Delete(wb.ID)
	if _, ok := reg.Get(wb.ID); ok {
		t.Error("Get after Delete must miss")
	}
}
