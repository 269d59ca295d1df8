package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	for _, table := range []string{"players", "mod_data"} {
		if err := db.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("Failed to query %s table: %v", table, err)
		}
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(nestedPath)
	if err != nil {
		t.Fatalf("Failed to open database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nestedPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestOpenWithConfig_Errors(t *testing.T) {
	if _, err := OpenWithConfig(Config{Driver: "mysql"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
	if _, err := OpenWithConfig(Config{Driver: "sqlite"}); err == nil {
		t.Error("expected error for missing sqlite path")
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 2; i++ {
		db, err := Open(dbPath)
		if err != nil {
			t.Fatalf("open #%d failed: %v", i+1, err)
		}
		db.Close()
	}
}

func TestSaveAndLoadModData(t *testing.T) {
	db := setupTestDB(t)

	data := map[string]string{
		"QuestableTractor.LoaderStatus":      "GiveShoesToClint",
		"QuestableTractor.ScytheQuestStatus": "v2|MissingParts|AskedJas",
	}
	if err := db.SaveModData("owner-1", 12, data); err != nil {
		t.Fatalf("SaveModData failed: %v", err)
	}

	loaded, err := db.LoadModData("owner-1")
	if err != nil {
		t.Fatalf("LoadModData failed: %v", err)
	}
	if len(loaded) != len(data) {
		t.Fatalf("loaded %d keys, want %d", len(loaded), len(data))
	}
	for k, v := range data {
		if loaded[k] != v {
			t.Errorf("loaded[%q] = %q, want %q", k, loaded[k], v)
		}
	}

	rec, err := db.GetPlayer("owner-1")
	if err != nil {
		t.Fatalf("GetPlayer failed: %v", err)
	}
	if rec.TotalDays != 12 || rec.Keys != 2 {
		t.Errorf("player record = %+v", rec)
	}
	if rec.LastSaved.IsZero() {
		t.Error("LastSaved was not recorded")
	}
}

func TestSaveModDataReplacesExisting(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SaveModData("owner-1", 1, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveModData("owner-1", 2, map[string]string{"b": "3"}); err != nil {
		t.Fatal(err)
	}

	loaded, err := db.LoadModData("owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loaded["a"]; ok {
		t.Error("key a should have been removed by the full replace")
	}
	if loaded["b"] != "3" {
		t.Errorf("loaded[b] = %q, want 3", loaded["b"])
	}
}

func TestSaveEmptyModData(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SaveModData("owner-1", 0, nil); err != nil {
		t.Fatalf("SaveModData(nil) failed: %v", err)
	}
	loaded, err := db.LoadModData("owner-1")
	if err != nil {
		t.Fatalf("LoadModData failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected no keys, got %v", loaded)
	}
}

func TestLoadModData_PlayerNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.LoadModData("nobody")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestModDataIsPerPlayer(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SaveModData("owner-1", 0, map[string]string{"k": "one"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveModData("owner-2", 0, map[string]string{"k": "two"}); err != nil {
		t.Fatal(err)
	}

	one, _ := db.LoadModData("owner-1")
	two, _ := db.LoadModData("owner-2")
	if one["k"] != "one" || two["k"] != "two" {
		t.Errorf("mod data leaked between players: %v / %v", one, two)
	}
}

func TestSetAndDeleteModValue(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SetModValue("nobody", "k", "v"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}

	if err := db.SaveModData("owner-1", 0, map[string]string{"k": "old"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SetModValue("owner-1", "k", "new"); err != nil {
		t.Fatalf("SetModValue update failed: %v", err)
	}
	if err := db.SetModValue("owner-1", "k2", "added"); err != nil {
		t.Fatalf("SetModValue insert failed: %v", err)
	}

	loaded, _ := db.LoadModData("owner-1")
	if loaded["k"] != "new" || loaded["k2"] != "added" {
		t.Errorf("unexpected data after set: %v", loaded)
	}

	if err := db.DeleteModValue("owner-1", "k"); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteModValue("owner-1", "missing"); err != nil {
		t.Errorf("deleting an absent key should not fail: %v", err)
	}
	loaded, _ = db.LoadModData("owner-1")
	if _, ok := loaded["k"]; ok {
		t.Error("key k still present after delete")
	}
}

func TestListAndDeletePlayers(t *testing.T) {
	db := setupTestDB(t)

	for _, id := range []string{"b-owner", "a-owner"} {
		if err := db.SaveModData(id, 3, map[string]string{"k": "v"}); err != nil {
			t.Fatal(err)
		}
	}

	players, err := db.ListPlayers()
	if err != nil {
		t.Fatalf("ListPlayers failed: %v", err)
	}
	if len(players) != 2 || players[0].PlayerID != "a-owner" {
		t.Fatalf("unexpected players %+v", players)
	}

	if err := db.DeletePlayer("a-owner"); err != nil {
		t.Fatalf("DeletePlayer failed: %v", err)
	}
	if err := db.DeletePlayer("a-owner"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound on second delete, got %v", err)
	}

	var count int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM mod_data WHERE player_id = 'a-owner'").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("mod data rows left behind: %d", count)
	}
}
