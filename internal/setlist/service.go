package setlist

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

var (
	ErrSetlistNotFound = errors.New("setlist not found")
	ErrSongNotFound    = errors.New("song not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrEncoreOnOpener  = errors.New("the opening song cannot start an encore")
	ErrBadDirection    = errors.New("direction must be \"up\" or \"down\"")
	ErrEmptyCatalog    = errors.New("catalog has no songs to generate from")
)

// Service owns every structural mutation of a setlist. Each method runs as
// one transaction so a half-applied renumbering pass can never be observed.
type Service struct {
	db *gorm.DB

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

func NewService(db *gorm.DB) *Service {
	return NewSeededService(db, time.Now().UnixNano())
}

// NewSeededService fixes the shuffle seed so generation is reproducible.
func NewSeededService(db *gorm.DB, seed int64) *Service {
	return &Service{db: db, rng: rand.New(rand.NewSource(seed))}
}

func (s *Service) generate(targetSeconds int, pool []models.Song) []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Generate(targetSeconds, pool, s.rng)
}

// CreateGenerated persists a new setlist pre-populated by the generator.
// Fails without side effects when the catalog is empty.
func (s *Service) CreateGenerated(sl *models.Setlist) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var pool []models.Song
		if err := tx.Order("title ASC").Find(&pool).Error; err != nil {
			return err
		}
		if len(pool) == 0 {
			return ErrEmptyCatalog
		}

		if err := tx.Create(sl).Error; err != nil {
			return err
		}

		target := 0
		if sl.TargetDurationSeconds != nil {
			target = *sl.TargetDurationSeconds
		}
		return s.insertGenerated(tx, sl.ID, target, pool)
	})
}

// Regenerate throws away a setlist's entries and rebuilds them from the full
// catalog against the stored target duration. Returns how many songs were
// placed.
func (s *Service) Regenerate(setlistID uint) (int, error) {
	var placed int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sl models.Setlist
		if err := tx.First(&sl, setlistID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSetlistNotFound
			}
			return err
		}

		if err := tx.Where("setlist_id = ?", setlistID).Delete(&models.SetlistEntry{}).Error; err != nil {
			return err
		}

		var pool []models.Song
		if err := tx.Order("title ASC").Find(&pool).Error; err != nil {
			return err
		}

		target := 0
		if sl.TargetDurationSeconds != nil {
			target = *sl.TargetDurationSeconds
		}
		if err := s.insertGenerated(tx, setlistID, target, pool); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.SetlistEntry{}).
			Where("setlist_id = ?", setlistID).
			Count(&count).Error; err != nil {
			return err
		}
		placed = int(count)
		return nil
	})
	return placed, err
}

func (s *Service) insertGenerated(tx *gorm.DB, setlistID uint, target int, pool []models.Song) error {
	songs := s.generate(target, pool)
	generations.Inc()

	for i, song := range songs {
		entry := models.SetlistEntry{
			SetlistID: setlistID,
			SongID:    song.ID,
			Position:  i + 1,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// AddSong appends a song to the end of a setlist.
func (s *Service) AddSong(setlistID, songID uint, notes string) (*models.SetlistEntry, error) {
	var entry *models.SetlistEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := firstOr(tx, &models.Setlist{}, setlistID, ErrSetlistNotFound); err != nil {
			return err
		}
		if err := firstOr(tx, &models.Song{}, songID, ErrSongNotFound); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.SetlistEntry{}).Where("setlist_id = ?", setlistID).Count(&count).Error; err != nil {
			return err
		}

		entry = &models.SetlistEntry{
			SetlistID: setlistID,
			SongID:    songID,
			Position:  int(count) + 1,
			Notes:     notes,
		}
		return tx.Create(entry).Error
	})
	return entry, err
}

// RemoveEntry deletes one entry and renumbers the remainder.
func (s *Service) RemoveEntry(setlistID, entryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("setlist_id = ? AND id = ?", setlistID, entryID).Delete(&models.SetlistEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEntryNotFound
		}
		return s.renumberWithin(tx, setlistID)
	})
}

// MoveEntry swaps an entry's position with its up/down neighbour. Moving the
// first entry up (or the last down) is a no-op, matching how the buttons
// behave at the edges. A pure swap cannot introduce gaps, so no renumbering
// pass runs here.
func (s *Service) MoveEntry(setlistID, entryID uint, direction string) error {
	if direction != "up" && direction != "down" {
		return ErrBadDirection
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		entries, err := s.orderedEntries(tx, setlistID)
		if err != nil {
			return err
		}

		index := indexOfEntry(entries, entryID)
		if index < 0 {
			return ErrEntryNotFound
		}

		var neighbour int
		switch {
		case direction == "up" && index > 0:
			neighbour = index - 1
		case direction == "down" && index < len(entries)-1:
			neighbour = index + 1
		default:
			return nil
		}

		entries[index].Position, entries[neighbour].Position = entries[neighbour].Position, entries[index].Position

		for _, i := range []int{index, neighbour} {
			if err := tx.Model(&models.SetlistEntry{}).
				Where("id = ?", entries[i].ID).
				Update("position", entries[i].Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ToggleEncore flips the encore flag on one entry, clearing it everywhere
// else first. Toggling the same entry twice restores the no-encore state.
// The entry at position 1 can never start an encore: an encore implies a
// break after a preceding set. Returns the entry's new flag state.
func (s *Service) ToggleEncore(setlistID, entryID uint) (bool, error) {
	var state bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		entries, err := s.orderedEntries(tx, setlistID)
		if err != nil {
			return err
		}

		index := indexOfEntry(entries, entryID)
		if index < 0 {
			return ErrEntryNotFound
		}
		if entries[index].Position == 1 {
			return ErrEncoreOnOpener
		}

		was := entries[index].StartsEncore

		if err := tx.Model(&models.SetlistEntry{}).
			Where("setlist_id = ? AND id <> ?", setlistID, entryID).
			Update("starts_encore", false).Error; err != nil {
			return err
		}

		state = !was
		return tx.Model(&models.SetlistEntry{}).
			Where("id = ?", entryID).
			Update("starts_encore", state).Error
	})
	return state, err
}

// NormalizePositions rewrites a setlist's positions to 1..N and drops any
// duplicate encore flags. Safe to call on an already-clean setlist.
func (s *Service) NormalizePositions(setlistID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.renumberWithin(tx, setlistID)
	})
}

func (s *Service) renumberWithin(tx *gorm.DB, setlistID uint) error {
	entries, err := s.orderedEntries(tx, setlistID)
	if err != nil {
		return err
	}

	if !Renumber(entries) {
		return nil
	}

	for _, entry := range entries {
		if err := tx.Model(&models.SetlistEntry{}).
			Where("id = ?", entry.ID).
			Updates(map[string]interface{}{
				"position":      entry.Position,
				"starts_encore": entry.StartsEncore,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteSong removes a song from the catalog along with every setlist entry
// referencing it, then renumbers each affected setlist. Returns the deleted
// song for display.
func (s *Service) DeleteSong(songID uint) (*models.Song, error) {
	var song models.Song
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&song, songID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSongNotFound
			}
			return err
		}

		var affected []uint
		if err := tx.Model(&models.SetlistEntry{}).
			Where("song_id = ?", songID).
			Distinct("setlist_id").
			Pluck("setlist_id", &affected).Error; err != nil {
			return err
		}

		if err := tx.Where("song_id = ?", songID).Delete(&models.SetlistEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Song{}, songID).Error; err != nil {
			return err
		}

		for _, setlistID := range affected {
			if err := s.renumberWithin(tx, setlistID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// DeleteSetlist removes a setlist and all of its entries.
func (s *Service) DeleteSetlist(setlistID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("setlist_id = ?", setlistID).Delete(&models.SetlistEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Setlist{}, setlistID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSetlistNotFound
		}
		return nil
	})
}

func (s *Service) orderedEntries(tx *gorm.DB, setlistID uint) ([]models.SetlistEntry, error) {
	var entries []models.SetlistEntry
	err := tx.Where("setlist_id = ?", setlistID).Order("position ASC").Find(&entries).Error
	return entries, err
}

func indexOfEntry(entries []models.SetlistEntry, entryID uint) int {
	for i, entry := range entries {
		if entry.ID == entryID {
			return i
		}
	}
	return -1
}

func firstOr(tx *gorm.DB, model interface{}, id uint, notFound error) error {
	if err := tx.First(model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return fmt.Errorf("lookup id %d: %w", id, err)
	}
	return nil
}
