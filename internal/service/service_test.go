package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
	"github.com/ndewijer/Migration-Dashboard/internal/repository"
	"github.com/ndewijer/Migration-Dashboard/internal/service"
	"github.com/ndewijer/Migration-Dashboard/internal/testutil"
)

type capturePublisher struct {
	published []model.Activity
	err       error
}

func (p *capturePublisher) Publish(_ context.Context, a model.Activity) error {
	p.published = append(p.published, a)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func TestActivityService(t *testing.T) {
	ctx := context.Background()

	t.Run("records, publishes and lists newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		pub := &capturePublisher{}
		svc := service.NewActivityService(repository.NewActivityRepository(db), pub, testutil.DiscardLogger())

		svc.Record(ctx, model.ActionBackup, model.ActivitySucceeded, "first")
		time.Sleep(2 * time.Millisecond)
		svc.Record(ctx, model.ActionApply, model.ActivityFailed, "second")

		got, err := svc.RecentActivity(ctx, 10)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Count != 2 {
			t.Fatalf("Expected 2 activities, got %d", got.Count)
		}
		if got.Activities[0].Detail != "second" || got.Activities[0].Status != model.ActivityFailed {
			t.Errorf("Expected newest first, got %+v", got.Activities[0])
		}
		if len(pub.published) != 2 {
			t.Errorf("Expected 2 published activities, got %d", len(pub.published))
		}
	})

	t.Run("publish failure still stores the activity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		pub := &capturePublisher{err: errors.New("broker down")}
		svc := service.NewActivityService(repository.NewActivityRepository(db), pub, testutil.DiscardLogger())

		svc.Record(ctx, model.ActionUpload, model.ActivitySucceeded, "uploaded")

		got, _ := svc.RecentActivity(ctx, 5)
		if got.Count != 1 {
			t.Errorf("Expected stored activity, got %d", got.Count)
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		for i := 0; i < 3; i++ {
			testutil.NewActivity().At(time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)).Build(t, db)
		}
		svc := service.NewActivityService(repository.NewActivityRepository(db), nil, testutil.DiscardLogger())

		got, err := svc.RecentActivity(ctx, 2)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Count != 2 || got.Activities[0].CreatedAt.Day() != 3 {
			t.Errorf("Unexpected activities %+v", got.Activities)
		}
	})

	t.Run("rejects non-positive limits", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewActivityService(repository.NewActivityRepository(db), nil, testutil.DiscardLogger())

		if _, err := svc.RecentActivity(ctx, 0); !errors.Is(err, apperrors.ErrInvalidLimit) {
			t.Errorf("Expected ErrInvalidLimit, got %v", err)
		}
	})
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T, key string) (*service.TokenService, *repository.SettingRepository) {
		t.Helper()
		repo := repository.NewSettingRepository(testutil.SetupTestDB(t))
		svc, err := service.NewTokenService(repo, key)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		return svc, repo
	}

	t.Run("round trips an encrypted token", func(t *testing.T) {
		key, err := service.GenerateTokenKey()
		if err != nil {
			t.Fatalf("Failed to generate key: %v", err)
		}
		svc, repo := newService(t, key)

		if err := svc.Save(ctx, "ghp_secret"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		stored, _ := repo.GetSetting(ctx, "github_token")
		if stored == "" || stored == "ghp_secret" {
			t.Errorf("Expected token to be stored encrypted, got %q", stored)
		}

		got, err := svc.Token(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != "ghp_secret" {
			t.Errorf("Expected ghp_secret, got %q", got)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		key, _ := service.GenerateTokenKey()
		svc, _ := newService(t, key)

		if _, err := svc.Token(ctx); !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound, got %v", err)
		}
	})

	t.Run("clear removes the token", func(t *testing.T) {
		key, _ := service.GenerateTokenKey()
		svc, _ := newService(t, key)
		_ = svc.Save(ctx, "ghp_secret")

		if err := svc.Clear(ctx); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, err := svc.Token(ctx); !errors.Is(err, apperrors.ErrSettingNotFound) {
			t.Errorf("Expected ErrSettingNotFound after clear, got %v", err)
		}
	})

	t.Run("wrong key cannot decrypt", func(t *testing.T) {
		key, _ := service.GenerateTokenKey()
		other, _ := service.GenerateTokenKey()
		svc, repo := newService(t, key)
		_ = svc.Save(ctx, "ghp_secret")

		rotated, _ := service.NewTokenService(repo, other)
		if _, err := rotated.Token(ctx); !errors.Is(err, apperrors.ErrTokenDecrypt) {
			t.Errorf("Expected ErrTokenDecrypt, got %v", err)
		}
	})

	t.Run("disabled without a key", func(t *testing.T) {
		svc, _ := newService(t, "")

		if svc.Enabled() {
			t.Error("Expected vault to be disabled")
		}
		if err := svc.Save(ctx, "x"); !errors.Is(err, apperrors.ErrTokenVaultDisabled) {
			t.Errorf("Expected ErrTokenVaultDisabled, got %v", err)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		repo := repository.NewSettingRepository(testutil.SetupTestDB(t))
		if _, err := service.NewTokenService(repo, "not-a-key"); !errors.Is(err, apperrors.ErrInvalidTokenKey) {
			t.Errorf("Expected ErrInvalidTokenKey, got %v", err)
		}
	})
}

func TestSystemService(t *testing.T) {
	t.Run("reports schema version", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewSystemService(db, "http://localhost:8000")

		info, err := svc.CheckVersion()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if info.DbVersion != "1" {
			t.Errorf("Expected schema version 1, got %s", info.DbVersion)
		}
		if info.APIBase != "http://localhost:8000" {
			t.Errorf("Unexpected API base %s", info.APIBase)
		}
	})

	t.Run("health fails on a closed database", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := service.NewSystemService(db, "")
		db.Close()

		if err := svc.CheckHealth(); err == nil {
			t.Error("Expected an error")
		}
	})
}
