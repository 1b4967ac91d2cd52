package importers

import "time"

// sentinelDate is the placeholder both providers use for "no date".
// It must never be interpreted as an actual calendar date.
const sentinelDate = "0000-00-00"

const dateLayout = "2006-01-02"

// parseWatchDate normalizes a provider-supplied date string. The empty
// string, the sentinel, and anything unparseable map to nil.
func parseWatchDate(value string) *time.Time {
	if value == "" || value == sentinelDate {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
