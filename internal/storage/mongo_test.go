package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/shared"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAccountDocumentTranslation(t *testing.T) {
	t.Run("document keyed by entity id", func(t *testing.T) {
		acc := models.Account{
			ID:       "a1",
			RoleName: "admin",
			UserName: "u",
			Password: "p",
			ServerID: 1,
			Cookies:  []models.Cookie{{"name": "sid", "value": "x"}},
		}

		doc := accountToDocument(acc)
		if doc[0].Key != "_id" || doc[0].Value != "a1" {
			t.Errorf("document should be keyed by _id = entity id, got %+v", doc[0])
		}
	})

	t.Run("absent cookies omits the field entirely", func(t *testing.T) {
		doc := accountToDocument(models.Account{ID: "a1", RoleName: "admin"})
		for _, elem := range doc {
			if elem.Key == "cookies" {
				t.Errorf("absent cookies should not be stored, found %+v", elem)
			}
		}
	})

	t.Run("empty cookies keeps the field", func(t *testing.T) {
		doc := accountToDocument(models.Account{ID: "a1", Cookies: []models.Cookie{}})
		found := false
		for _, elem := range doc {
			if elem.Key == "cookies" {
				found = true
			}
		}
		if !found {
			t.Error("explicitly empty cookies should be stored as an empty array")
		}
	})

	t.Run("read normalizes missing fields", func(t *testing.T) {
		backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeLenient, shared.NewLogger(nil))

		acc, err := backend.accountFromDocument(bson.M{"_id": "a1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if acc.ID != "a1" || acc.RoleName != "" || acc.ServerID != 0 || acc.Ranking != 0 {
			t.Errorf("missing fields should normalize to zero values: %+v", acc)
		}
		if acc.Cookies != nil {
			t.Errorf("missing cookies field should read as nil, got %v", acc.Cookies)
		}
	})

	t.Run("read preserves empty cookie array", func(t *testing.T) {
		backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeLenient, shared.NewLogger(nil))

		acc, err := backend.accountFromDocument(bson.M{"_id": "a1", "cookies": bson.A{}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acc.Cookies == nil || len(acc.Cookies) != 0 {
			t.Errorf("empty cookie array should read as empty, got %v", acc.Cookies)
		}
	})

	t.Run("read decodes driver integer widths", func(t *testing.T) {
		backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeLenient, shared.NewLogger(nil))

		acc, err := backend.accountFromDocument(bson.M{
			"_id":       "a1",
			"server_id": int32(4),
			"ranking":   int64(9),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acc.ServerID != 4 || acc.Ranking != 9 {
			t.Errorf("expected server_id 4 and ranking 9, got %+v", acc)
		}
	})

	t.Run("write then read is model-equal", func(t *testing.T) {
		backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeLenient, shared.NewLogger(nil))

		want := models.Account{
			ID:       "a1",
			RoleName: "admin",
			UserName: "u",
			Password: "p",
			ServerID: 1,
			Cookies:  []models.Cookie{{"name": "sid", "value": "x"}},
		}

		// Simulate the driver round-trip at the codec level.
		raw, err := bson.Marshal(accountToDocument(want))
		if err != nil {
			t.Fatalf("failed to marshal document: %v", err)
		}
		var stored bson.M
		if err := bson.Unmarshal(raw, &stored); err != nil {
			t.Fatalf("failed to unmarshal document: %v", err)
		}

		got, err := backend.accountFromDocument(stored)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(want) {
			t.Errorf("account did not survive the codec round-trip: got %+v want %+v", got, want)
		}
	})
}

func TestGroupDocumentTranslation(t *testing.T) {
	backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeLenient, shared.NewLogger(nil))

	t.Run("nil description stores as null and reads back nil", func(t *testing.T) {
		raw, err := bson.Marshal(groupToDocument(models.Group{ID: "g1", Name: "G", AccountIDs: []string{"a1"}}))
		if err != nil {
			t.Fatalf("failed to marshal document: %v", err)
		}
		var stored bson.M
		if err := bson.Unmarshal(raw, &stored); err != nil {
			t.Fatalf("failed to unmarshal document: %v", err)
		}

		if _, present := stored["description"]; !present {
			t.Error("description field should be stored even when null")
		}

		got, err := backend.groupFromDocument(stored)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Description != nil {
			t.Errorf("null description should read back nil, got %v", *got.Description)
		}
	})

	t.Run("member ordering preserved", func(t *testing.T) {
		want := models.Group{ID: "g1", Name: "G", AccountIDs: []string{"b", "a", "b"}}

		raw, err := bson.Marshal(groupToDocument(want))
		if err != nil {
			t.Fatalf("failed to marshal document: %v", err)
		}
		var stored bson.M
		if err := bson.Unmarshal(raw, &stored); err != nil {
			t.Fatalf("failed to unmarshal document: %v", err)
		}

		got, err := backend.groupFromDocument(stored)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(want) {
			t.Errorf("group did not survive the codec round-trip: got %+v want %+v", got, want)
		}
	})

	t.Run("missing member list reads as empty", func(t *testing.T) {
		got, err := backend.groupFromDocument(bson.M{"_id": "g1", "name": "G"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.AccountIDs == nil || len(got.AccountIDs) != 0 {
			t.Errorf("missing account_ids should read as empty, got %v", got.AccountIDs)
		}
	})
}

func TestMongoDecodePolicy(t *testing.T) {
	malformedAccount := bson.M{"_id": "a1", "cookies": "not an array"}
	malformedGroup := bson.M{"_id": "g1", "name": "G", "account_ids": "not an array"}

	t.Run("lenient degrades to absent or empty", func(t *testing.T) {
		backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeLenient, shared.NewLogger(nil))

		acc, err := backend.accountFromDocument(malformedAccount)
		if err != nil {
			t.Fatalf("lenient read should not fail: %v", err)
		}
		if acc.Cookies != nil {
			t.Errorf("malformed cookies should read as absent, got %v", acc.Cookies)
		}

		grp, err := backend.groupFromDocument(malformedGroup)
		if err != nil {
			t.Fatalf("lenient read should not fail: %v", err)
		}
		if grp.AccountIDs == nil || len(grp.AccountIDs) != 0 {
			t.Errorf("malformed account_ids should read as empty, got %v", grp.AccountIDs)
		}
	})

	t.Run("strict surfaces the decode error", func(t *testing.T) {
		backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeStrict, shared.NewLogger(nil))

		if _, err := backend.accountFromDocument(malformedAccount); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
		if _, err := backend.groupFromDocument(malformedGroup); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
	})
}

func TestMongoConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := NewMongoBackend("mongodb://localhost:27017", "vault", DecodeLenient, shared.NewLogger(nil))

	t.Run("operations before connect fail", func(t *testing.T) {
		if _, err := backend.ReadAccounts(ctx); !errors.Is(err, shared.ErrNotConnected) {
			t.Errorf("expected ErrNotConnected from ReadAccounts, got %v", err)
		}
		if err := backend.WriteAccounts(ctx, nil); !errors.Is(err, shared.ErrNotConnected) {
			t.Errorf("expected ErrNotConnected from WriteAccounts, got %v", err)
		}
		if err := backend.EnsureSchema(ctx); !errors.Is(err, shared.ErrNotConnected) {
			t.Errorf("expected ErrNotConnected from EnsureSchema, got %v", err)
		}
	})

	t.Run("close without connect", func(t *testing.T) {
		if err := backend.Close(ctx); err != nil {
			t.Errorf("close without connect should succeed, got %v", err)
		}
	})
}
