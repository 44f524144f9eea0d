package setlist

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

// setupTestDB creates a throwaway in-memory database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := d.AutoMigrate(&models.Song{}, &models.Setlist{}, &models.SetlistEntry{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return d
}

func seedSongs(t *testing.T, db *gorm.DB, durations ...int) []models.Song {
	t.Helper()
	songs := make([]models.Song, len(durations))
	for i, d := range durations {
		songs[i] = models.Song{
			Title:           fmt.Sprintf("Song %d", i+1),
			Artist:          "Test Artist",
			DurationSeconds: d,
		}
	}
	if err := db.Create(&songs).Error; err != nil {
		t.Fatalf("failed to seed songs: %v", err)
	}
	return songs
}

func seedSetlist(t *testing.T, db *gorm.DB, songs []models.Song) models.Setlist {
	t.Helper()
	sl := models.Setlist{Name: "Friday Show"}
	if err := db.Create(&sl).Error; err != nil {
		t.Fatalf("failed to seed setlist: %v", err)
	}
	for i, song := range songs {
		entry := models.SetlistEntry{SetlistID: sl.ID, SongID: song.ID, Position: i + 1}
		if err := db.Create(&entry).Error; err != nil {
			t.Fatalf("failed to seed entry: %v", err)
		}
	}
	return sl
}

func orderedFor(t *testing.T, db *gorm.DB, setlistID uint) []models.SetlistEntry {
	t.Helper()
	var entries []models.SetlistEntry
	if err := db.Where("setlist_id = ?", setlistID).Order("position ASC").Find(&entries).Error; err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	return entries
}

func assertContiguous(t *testing.T, entries []models.SetlistEntry) {
	t.Helper()
	encores := 0
	for i, entry := range entries {
		if entry.Position != i+1 {
			t.Errorf("position %d at slot %d, want %d", entry.Position, i, i+1)
		}
		if entry.StartsEncore {
			encores++
		}
	}
	if encores > 1 {
		t.Errorf("%d entries flagged as encore start, want at most 1", encores)
	}
}

func TestAddSongAppends(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180)
	sl := seedSetlist(t, db, nil)

	first, err := svc.AddSong(sl.ID, songs[0].ID, "")
	if err != nil {
		t.Fatalf("AddSong: %v", err)
	}
	second, err := svc.AddSong(sl.ID, songs[1].ID, "crowd favourite")
	if err != nil {
		t.Fatalf("AddSong: %v", err)
	}

	if first.Position != 1 || second.Position != 2 {
		t.Errorf("positions = %d, %d; want 1, 2", first.Position, second.Position)
	}
	if second.Notes != "crowd favourite" {
		t.Errorf("notes not persisted: %q", second.Notes)
	}
}

func TestAddSongUnknownIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200)
	sl := seedSetlist(t, db, nil)

	if _, err := svc.AddSong(sl.ID, 999, ""); err != ErrSongNotFound {
		t.Errorf("expected ErrSongNotFound, got %v", err)
	}
	if _, err := svc.AddSong(999, songs[0].ID, ""); err != ErrSetlistNotFound {
		t.Errorf("expected ErrSetlistNotFound, got %v", err)
	}
}

func TestRemoveEntryRenumbers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180, 150)
	sl := seedSetlist(t, db, songs)

	entries := orderedFor(t, db, sl.ID)
	if err := svc.RemoveEntry(sl.ID, entries[1].ID); err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}

	remaining := orderedFor(t, db, sl.ID)
	if len(remaining) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(remaining))
	}
	assertContiguous(t, remaining)
	if remaining[0].SongID != songs[0].ID || remaining[1].SongID != songs[2].ID {
		t.Error("surviving entries are not in the original order")
	}
}

func TestRemoveEntryNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	sl := seedSetlist(t, db, nil)

	if err := svc.RemoveEntry(sl.ID, 42); err != ErrEntryNotFound {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestMoveEntrySwapsNeighbours(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180, 150)
	sl := seedSetlist(t, db, songs)

	entries := orderedFor(t, db, sl.ID)
	if err := svc.MoveEntry(sl.ID, entries[2].ID, "up"); err != nil {
		t.Fatalf("MoveEntry: %v", err)
	}

	after := orderedFor(t, db, sl.ID)
	assertContiguous(t, after)
	if after[1].ID != entries[2].ID || after[2].ID != entries[1].ID {
		t.Error("expected entries 2 and 3 to swap")
	}

	// Edge moves are no-ops.
	if err := svc.MoveEntry(sl.ID, after[0].ID, "up"); err != nil {
		t.Fatalf("MoveEntry at edge: %v", err)
	}
	if got := orderedFor(t, db, sl.ID); got[0].ID != after[0].ID {
		t.Error("moving the first entry up should not change anything")
	}

	if err := svc.MoveEntry(sl.ID, after[0].ID, "sideways"); err != ErrBadDirection {
		t.Errorf("expected ErrBadDirection, got %v", err)
	}
}

func TestToggleEncore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180, 150)
	sl := seedSetlist(t, db, songs)
	entries := orderedFor(t, db, sl.ID)

	// Toggle on.
	state, err := svc.ToggleEncore(sl.ID, entries[1].ID)
	if err != nil {
		t.Fatalf("ToggleEncore: %v", err)
	}
	if !state {
		t.Error("expected flag to be set")
	}

	// Toggling another entry moves the flag.
	if _, err := svc.ToggleEncore(sl.ID, entries[2].ID); err != nil {
		t.Fatalf("ToggleEncore: %v", err)
	}
	after := orderedFor(t, db, sl.ID)
	if after[1].StartsEncore || !after[2].StartsEncore {
		t.Error("expected the encore flag to move from entry 2 to entry 3")
	}

	// Toggling the same entry twice restores the no-encore state.
	if _, err := svc.ToggleEncore(sl.ID, entries[2].ID); err != nil {
		t.Fatalf("ToggleEncore: %v", err)
	}
	for _, entry := range orderedFor(t, db, sl.ID) {
		if entry.StartsEncore {
			t.Errorf("entry %d still flagged after double toggle", entry.ID)
		}
	}
}

func TestToggleEncoreRejectsOpener(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180)
	sl := seedSetlist(t, db, songs)
	entries := orderedFor(t, db, sl.ID)

	if _, err := svc.ToggleEncore(sl.ID, entries[0].ID); err != ErrEncoreOnOpener {
		t.Errorf("expected ErrEncoreOnOpener, got %v", err)
	}
}

func TestNormalizePositionsRepairsCorruption(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180, 150)
	sl := seedSetlist(t, db, songs)
	entries := orderedFor(t, db, sl.ID)

	// Corrupt: gapped positions and two encore flags.
	db.Model(&models.SetlistEntry{}).Where("id = ?", entries[1].ID).
		Updates(map[string]interface{}{"position": 5, "starts_encore": true})
	db.Model(&models.SetlistEntry{}).Where("id = ?", entries[2].ID).
		Updates(map[string]interface{}{"position": 9, "starts_encore": true})

	if err := svc.NormalizePositions(sl.ID); err != nil {
		t.Fatalf("NormalizePositions: %v", err)
	}

	assertContiguous(t, orderedFor(t, db, sl.ID))
}

func TestDeleteSongCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180, 150)
	first := seedSetlist(t, db, songs)
	second := seedSetlist(t, db, songs[:2])

	deleted, err := svc.DeleteSong(songs[0].ID)
	if err != nil {
		t.Fatalf("DeleteSong: %v", err)
	}
	if deleted.Title != songs[0].Title {
		t.Errorf("deleted the wrong song: %q", deleted.Title)
	}

	var count int64
	db.Model(&models.SetlistEntry{}).Where("song_id = ?", songs[0].ID).Count(&count)
	if count != 0 {
		t.Errorf("%d entries still reference the deleted song", count)
	}

	for _, setlistID := range []uint{first.ID, second.ID} {
		assertContiguous(t, orderedFor(t, db, setlistID))
	}
}

func TestDeleteSetlistRemovesEntries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)
	songs := seedSongs(t, db, 200, 180)
	sl := seedSetlist(t, db, songs)

	if err := svc.DeleteSetlist(sl.ID); err != nil {
		t.Fatalf("DeleteSetlist: %v", err)
	}

	var count int64
	db.Model(&models.SetlistEntry{}).Where("setlist_id = ?", sl.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d orphan entries remain", count)
	}

	if err := svc.DeleteSetlist(sl.ID); err != ErrSetlistNotFound {
		t.Errorf("expected ErrSetlistNotFound on second delete, got %v", err)
	}
}

func TestRegenerateRespectsTarget(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 42)
	songs := seedSongs(t, db, 200, 180, 150, 300, 240)

	target := 600
	sl := models.Setlist{Name: "Club Night", TargetDurationSeconds: &target}
	if err := db.Create(&sl).Error; err != nil {
		t.Fatalf("create setlist: %v", err)
	}

	placed, err := svc.Regenerate(sl.ID)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if placed == 0 {
		t.Fatal("expected at least one song placed")
	}

	entries := orderedFor(t, db, sl.ID)
	assertContiguous(t, entries)

	total := 0
	for _, entry := range entries {
		for _, song := range songs {
			if song.ID == entry.SongID {
				total += song.DurationSeconds
			}
		}
	}
	if total > target {
		t.Errorf("regenerated total %ds exceeds target %ds", total, target)
	}
}

func TestCreateGeneratedEmptyCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeededService(db, 1)

	sl := models.Setlist{Name: "Empty"}
	if err := svc.CreateGenerated(&sl); err != ErrEmptyCatalog {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}

	var count int64
	db.Model(&models.Setlist{}).Count(&count)
	if count != 0 {
		t.Error("failed generation should not leave a setlist behind")
	}
}
