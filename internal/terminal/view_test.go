package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

func init() {
	color.NoColor = true
}

func TestView_Sections(t *testing.T) {
	t.Run("prints only enabled sections", func(t *testing.T) {
		var buf bytes.Buffer
		v := NewView(&buf, SectionCounts)

		v.RenderCounts(model.DashboardCounts{AppliedCount: 2, PendingCount: 1, TotalCount: 3, BackupCount: 4}, model.ApplyButton{Enabled: true, Label: "Apply 1 Pending"}, "004")
		v.RenderVersions([]model.VersionRow{{Title: "Migration 001: init"}})

		out := buf.String()
		if !strings.Contains(out, "Apply 1 Pending") || !strings.Contains(out, "004") {
			t.Errorf("Expected counts output, got %q", out)
		}
		if strings.Contains(out, "Migration 001") {
			t.Error("Expected versions section to be skipped")
		}
	})

	t.Run("empty lists show their empty text", func(t *testing.T) {
		var buf bytes.Buffer
		v := NewView(&buf, SectionVersions, SectionBackups)

		v.RenderVersions(nil)
		v.RenderBackups(nil)

		out := buf.String()
		if !strings.Contains(out, model.EmptyVersionsText) || !strings.Contains(out, model.EmptyBackupsText) {
			t.Errorf("Expected empty texts, got %q", out)
		}
	})

	t.Run("keeps options for hidden sections", func(t *testing.T) {
		var buf bytes.Buffer
		v := NewView(&buf)

		v.RenderRollbackTargets([]model.Option{{Value: "001", Label: "001 - init (dev)"}})
		v.RenderBackupOptions([]model.Option{{Value: "b.sql", Label: "b.sql (1 KB, 2024-01-01)"}})

		if buf.Len() != 0 {
			t.Errorf("Expected no output, got %q", buf.String())
		}
		if len(v.RollbackTargets()) != 1 || v.BackupOptions()[0].Value != "b.sql" {
			t.Error("Expected options to be kept")
		}
	})
}

func TestView_Messages(t *testing.T) {
	var buf bytes.Buffer
	v := NewView(&buf)

	v.ShowSuccess(model.Notice{
		Title:  "Migration uploaded successfully!",
		Lines:  []model.NoticeLine{{Label: "Pull Request", Value: "#42", Href: "https://github.com/o/r/pull/42"}},
		Footer: "The CI workflow will automatically validate and test your migration.",
	})
	v.ShowError("Rollback failed: HTTP 500")

	out := buf.String()
	for _, want := range []string{
		"Migration uploaded successfully!",
		"Pull Request: #42 (https://github.com/o/r/pull/42)",
		"The CI workflow",
		"Rollback failed: HTTP 500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}

func TestConfirm_AssumeYes(t *testing.T) {
	if !Confirm(true)("apply?") {
		t.Error("Expected assumed yes")
	}
}

func TestSelect_NoOptions(t *testing.T) {
	got, err := Select("pick", nil, "")
	if err != nil || got != "" {
		t.Errorf("Expected empty answer, got %q (%v)", got, err)
	}
}
