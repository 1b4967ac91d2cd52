package importers

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"net/http"

	"github.com/plotwist/importer/internal/entities"
)

// watchedCSVName is the ZIP member Letterboxd writes watched films to.
const watchedCSVName = "watched.csv"

// watchedColumns are the columns every watched.csv row must carry. The
// names, including the space in "Letterboxd URI", are fixed by the
// Letterboxd export format and matched literally.
var watchedColumns = []string{"Date", "Name", "Year", "Letterboxd URI"}

// DecodeLetterboxd unpacks a Letterboxd export archive. The export only
// tracks watched movies, so every row maps to a movie with status WATCHED
// and the series collection is always empty. An archive without a
// watched.csv member decodes to zero movies rather than failing.
func DecodeLetterboxd(data []byte) ([]entities.ImportMovie, []entities.ImportSeries, error) {
	rows, err := extractWatchedRows(data)
	if err != nil {
		return nil, nil, classifyDecodeError(err)
	}

	movies, err := buildLetterboxdMovies(rows)
	if err != nil {
		return nil, nil, classifyDecodeError(err)
	}

	return movies, []entities.ImportSeries{}, nil
}

// extractWatchedRows opens the ZIP archive and parses watched.csv into
// string-keyed rows. A missing member yields an empty slice by design:
// the user simply has nothing of this kind to import.
func extractWatchedRows(data []byte) ([]map[string]string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewDomainError("Unable to read the uploaded ZIP archive", http.StatusUnprocessableEntity)
	}

	for _, member := range archive.File {
		if member.Name != watchedCSVName {
			continue
		}
		f, err := member.Open()
		if err != nil {
			return nil, NewDomainError("Unable to extract watched.csv from the archive", http.StatusUnprocessableEntity)
		}
		defer f.Close()
		return parseCSVRows(f)
	}

	return nil, nil
}

// parseCSVRows reads a CSV document into one map per row keyed by the
// header columns.
func parseCSVRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, NewDomainError("Unable to parse watched.csv", http.StatusUnprocessableEntity)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewDomainError("Unable to parse watched.csv", http.StatusUnprocessableEntity)
		}

		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// buildLetterboxdMovies validates each row against the required columns
// and maps it to an ImportMovie. Validation is all-or-nothing: the first
// malformed row rejects the entire batch before anything is persisted.
func buildLetterboxdMovies(rows []map[string]string) ([]entities.ImportMovie, error) {
	movies := make([]entities.ImportMovie, 0, len(rows))

	for _, row := range rows {
		narrowed := make(entities.Metadata, len(watchedColumns))
		for _, column := range watchedColumns {
			value, ok := row[column]
			if !ok {
				return nil, ErrInvalidCSVStructure()
			}
			narrowed[column] = value
		}

		movies = append(movies, entities.ImportMovie{
			Name:           row["Name"],
			EndDate:        parseWatchDate(row["Date"]),
			UserItemStatus: entities.ItemStatusWatched,
			ImportStatus:   entities.ImportStatusNotStarted,
			Metadata:       narrowed,
		})
	}

	return movies, nil
}

// classifyDecodeError keeps already-classified domain errors intact and
// wraps anything unexpected so a raw error never escapes the decoder.
func classifyDecodeError(err error) error {
	if _, ok := err.(*DomainError); ok {
		return err
	}
	return NewDomainError("An unexpected error occurred", http.StatusInternalServerError)
}
