package importers

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/plotwist/importer/internal/entities"
)

// seriesTypeMovie is the series_type discriminator MyAnimeList uses for
// feature films. Every other type (TV, OVA, ONA, Special, Music) is
// treated as a series so that partitioning stays exhaustive.
const seriesTypeMovie = "Movie"

// malExport mirrors the root of a MyAnimeList XML export. Tag names are
// fixed by the MAL export tool and matched literally.
type malExport struct {
	XMLName xml.Name   `xml:"myanimelist"`
	Anime   []malAnime `xml:"anime"`
}

type malAnime struct {
	SeriesAnimeDBID   int    `xml:"series_animedb_id"`
	SeriesTitle       string `xml:"series_title"`
	SeriesType        string `xml:"series_type"`
	SeriesEpisodes    *int   `xml:"series_episodes"`
	MyWatchedEpisodes *int   `xml:"my_watched_episodes"`
	MyStartDate       string `xml:"my_start_date"`
	MyFinishDate      string `xml:"my_finish_date"`
	MyScore           int    `xml:"my_score"`
	MyStatus          string `xml:"my_status"`
}

// malStatusTable translates the MyAnimeList watch-status vocabulary into
// the internal enum. Keys are lowercase; lookups are case-insensitive.
// On-Hold has no internal counterpart and maps to WATCHING.
var malStatusTable = map[string]entities.UserItemStatus{
	"completed":     entities.ItemStatusWatched,
	"watching":      entities.ItemStatusWatching,
	"plan to watch": entities.ItemStatusWatchlist,
	"dropped":       entities.ItemStatusDropped,
	"on-hold":       entities.ItemStatusWatching,
}

// translateMALStatus maps a provider status to the internal enum. A value
// outside the known vocabulary falls back to WATCHLIST, the least
// destructive interpretation for an entry we cannot classify.
func translateMALStatus(status string) entities.UserItemStatus {
	if mapped, ok := malStatusTable[strings.ToLower(status)]; ok {
		return mapped
	}
	return entities.ItemStatusWatchlist
}

// DecodeMyAnimeList unpacks a GZIP-compressed MyAnimeList XML export and
// partitions its entries into movies and series by series_type. The
// partition is exhaustive and disjoint: each entry lands in exactly one
// collection.
func DecodeMyAnimeList(data []byte) ([]entities.ImportMovie, []entities.ImportSeries, error) {
	export, err := extractMALExport(data)
	if err != nil {
		return nil, nil, classifyDecodeError(err)
	}

	movies := make([]entities.ImportMovie, 0, len(export.Anime))
	series := make([]entities.ImportSeries, 0, len(export.Anime))

	for _, entry := range export.Anime {
		if strings.EqualFold(entry.SeriesType, seriesTypeMovie) {
			movies = append(movies, buildMALMovie(entry))
		} else {
			series = append(series, buildMALSeries(entry))
		}
	}

	return movies, series, nil
}

// extractMALExport decompresses the upload and parses the XML document.
func extractMALExport(data []byte) (*malExport, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewDomainError("Unable to decompress the uploaded archive", http.StatusUnprocessableEntity)
	}
	defer gz.Close()

	decompressed, err := io.ReadAll(gz)
	if err != nil {
		return nil, NewDomainError("Unable to decompress the uploaded archive", http.StatusUnprocessableEntity)
	}

	var export malExport
	if err := xml.Unmarshal(decompressed, &export); err != nil {
		return nil, NewDomainError("Unable to parse the MyAnimeList export", http.StatusUnprocessableEntity)
	}

	return &export, nil
}

func buildMALMovie(entry malAnime) entities.ImportMovie {
	return entities.ImportMovie{
		Name:           entry.SeriesTitle,
		EndDate:        parseWatchDate(entry.MyFinishDate),
		UserItemStatus: translateMALStatus(entry.MyStatus),
		ImportStatus:   entities.ImportStatusNotStarted,
		Metadata:       entry.metadata(),
	}
}

func buildMALSeries(entry malAnime) entities.ImportSeries {
	return entities.ImportSeries{
		Name:            entry.SeriesTitle,
		StartDate:       parseWatchDate(entry.MyStartDate),
		EndDate:         parseWatchDate(entry.MyFinishDate),
		WatchedEpisodes: entry.MyWatchedEpisodes,
		SeriesEpisodes:  entry.SeriesEpisodes,
		UserItemStatus:  translateMALStatus(entry.MyStatus),
		ImportStatus:    entities.ImportStatusNotStarted,
		Metadata:        entry.metadata(),
	}
}

// metadata retains the verbatim provider record for auditing.
func (a malAnime) metadata() entities.Metadata {
	m := entities.Metadata{
		"series_animedb_id": a.SeriesAnimeDBID,
		"series_title":      a.SeriesTitle,
		"series_type":       a.SeriesType,
		"my_start_date":     a.MyStartDate,
		"my_finish_date":    a.MyFinishDate,
		"my_score":          a.MyScore,
		"my_status":         a.MyStatus,
	}
	if a.SeriesEpisodes != nil {
		m["series_episodes"] = *a.SeriesEpisodes
	}
	if a.MyWatchedEpisodes != nil {
		m["my_watched_episodes"] = *a.MyWatchedEpisodes
	}
	return m
}
