package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/tgranjon/reverb/internal/db"
	"github.com/tgranjon/reverb/internal/playlist"
)

// QueueState is the full persisted snapshot of the playback queue. Tracks
// holds the play order as presented; OriginalTracks holds the pre-shuffle
// order and is empty when shuffle is off.
type QueueState struct {
	CurrentIndex   int
	RepeatMode     playlist.RepeatMode
	Shuffle        bool
	Volume         int
	PreviousVolume int
	Muted          bool
	QueueOpen      bool
	Tracks         []playlist.Track
	OriginalTracks []playlist.Track
}

func getQueue(db *sql.DB) (*QueueState, error) {
	var (
		currentIndex, volume, previousVolume int
		repeatMode                           string
		shuffle, muted, queueOpen            bool
	)
	row := db.QueryRow(`
		SELECT current_index, repeat_mode, shuffle, volume, previous_volume, muted, queue_open
		FROM queue_state WHERE id = 1
	`)
	err := row.Scan(&currentIndex, &repeatMode, &shuffle, &volume, &previousVolume, &muted, &queueOpen)
	if errors.Is(err, sql.ErrNoRows) {
		// Volume -1 means no saved volume; the caller keeps its configured
		// default instead.
		return &QueueState{CurrentIndex: -1, Volume: -1, PreviousVolume: 80}, nil
	}
	if err != nil {
		return nil, err
	}

	tracks, err := loadTracks(db, "queue_tracks")
	if err != nil {
		return nil, err
	}
	original, err := loadTracks(db, "original_tracks")
	if err != nil {
		return nil, err
	}

	return &QueueState{
		CurrentIndex:   currentIndex,
		RepeatMode:     playlist.ParseRepeatMode(repeatMode),
		Shuffle:        shuffle,
		Volume:         volume,
		PreviousVolume: previousVolume,
		Muted:          muted,
		QueueOpen:      queueOpen,
		Tracks:         tracks,
		OriginalTracks: original,
	}, nil
}

func saveQueue(sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO queue_state (id, current_index, repeat_mode, shuffle, volume, previous_volume, muted, queue_open)
			VALUES (1, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle,
				volume = excluded.volume,
				previous_volume = excluded.previous_volume,
				muted = excluded.muted,
				queue_open = excluded.queue_open
		`, state.CurrentIndex, state.RepeatMode.String(), state.Shuffle,
			state.Volume, state.PreviousVolume, state.Muted, state.QueueOpen)
		if err != nil {
			return err
		}

		if err := saveTracks(tx, "queue_tracks", state.Tracks); err != nil {
			return err
		}
		return saveTracks(tx, "original_tracks", state.OriginalTracks)
	})
}

func loadTracks(db *sql.DB, table string) ([]playlist.Track, error) {
	rows, err := db.Query(`
		SELECT track_id, title, duration_ms, source_url,
			artist_id, artist_name, album_id, album_name, genre_id, genre_name
		FROM ` + table + `
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var (
			t                            playlist.Track
			durationMS                   int64
			artistID, albumID, genreID   sql.NullInt64
			artistName, albumName, genre sql.NullString
		)
		err := rows.Scan(&t.ID, &t.Title, &durationMS, &t.SourceURL,
			&artistID, &artistName, &albumID, &albumName, &genreID, &genre)
		if err != nil {
			return nil, err
		}

		t.Duration = time.Duration(durationMS) * time.Millisecond
		if artistID.Valid {
			t.Artist = &playlist.Ref{ID: artistID.Int64, Name: dbutil.NullStringValue(artistName)}
		}
		if albumID.Valid {
			t.Album = &playlist.Ref{ID: albumID.Int64, Name: dbutil.NullStringValue(albumName)}
		}
		if genreID.Valid {
			t.Genre = &playlist.Ref{ID: genreID.Int64, Name: dbutil.NullStringValue(genre)}
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func saveTracks(tx *sql.Tx, table string, tracks []playlist.Track) error {
	if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO ` + table + ` (position, track_id, title, duration_ms, source_url,
			artist_id, artist_name, album_id, album_name, genre_id, genre_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tracks {
		var artistID, albumID, genreID any
		var artistName, albumName, genreName any
		if t.Artist != nil {
			artistID, artistName = t.Artist.ID, t.Artist.Name
		}
		if t.Album != nil {
			albumID, albumName = t.Album.ID, t.Album.Name
		}
		if t.Genre != nil {
			genreID, genreName = t.Genre.ID, t.Genre.Name
		}
		_, err = stmt.Exec(i, t.ID, t.Title, t.Duration.Milliseconds(), t.SourceURL,
			artistID, artistName, albumID, albumName, genreID, genreName)
		if err != nil {
			return err
		}
	}
	return nil
}
