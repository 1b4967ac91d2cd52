package importers

import (
	"fmt"

	"github.com/plotwist/importer/internal/entities"
)

// Decode runs the decoder registered for the given provider against an
// uploaded archive and returns the mapped movie and series records.
//
// The provider set is closed: the switch below is the single dispatch
// point, so adding a provider means adding a case here and a decode
// function alongside it. An unknown provider is a configuration error,
// not user input, and panics.
func Decode(provider entities.Provider, data []byte) ([]entities.ImportMovie, []entities.ImportSeries, error) {
	switch provider {
	case entities.ProviderLetterboxd:
		return DecodeLetterboxd(data)
	case entities.ProviderMyAnimeList:
		return DecodeMyAnimeList(data)
	default:
		panic(fmt.Sprintf("importers: no decoder registered for provider %q", provider))
	}
}
