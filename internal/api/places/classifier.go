package places

import (
	"sort"
	"strings"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// Classify partitions records by preference label. With no preferences,
// every record lands under the reserved General group and _others stays
// empty. Otherwise each record's searchable text is tested against the
// preferences in caller order and the record joins the first match
// (first-match-wins), or _others when nothing matches. The substring match
// is deliberately heuristic; callers depend only on this function's
// contract, not the matching strategy.
func Classify(records []models.PlaceRecord, preferences []string) models.PreferenceGroup {
	if len(preferences) == 0 {
		return models.PreferenceGroup{
			models.GeneralGroup: append([]models.PlaceRecord(nil), records...),
			models.OthersGroup:  {},
		}
	}

	grouped := make(models.PreferenceGroup, len(preferences)+1)
	for _, preference := range preferences {
		grouped[preference] = []models.PlaceRecord{}
	}
	grouped[models.OthersGroup] = []models.PlaceRecord{}

	for _, record := range records {
		text := searchableText(record)
		matched := false
		for _, preference := range preferences {
			if strings.Contains(text, strings.ToLower(preference)) {
				record.Preference = preference
				grouped[preference] = append(grouped[preference], record)
				matched = true
				break
			}
		}
		if !matched {
			grouped[models.OthersGroup] = append(grouped[models.OthersGroup], record)
		}
	}
	return grouped
}

// searchableText folds the record's descriptive fields into one lower-case
// string for matching.
func searchableText(record models.PlaceRecord) string {
	parts := []string{
		record.Name,
		strings.Join(record.Types, " "),
		record.EditorialSummary,
		record.ReviewSummary,
		record.FormattedAddress,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Flatten concatenates each preference's group in caller order, then
// _others, skipping any identity already emitted. With no preferences the
// General group comes first. The result is a duplicate-free sequence in
// preference rank order.
func Flatten(grouped models.PreferenceGroup, preferences []string) []models.PlaceRecord {
	var result []models.PlaceRecord
	seen := make(map[string]struct{})

	appendGroup := func(label string) {
		for _, record := range grouped[label] {
			id := record.ID
			if id == "" {
				id = record.Name
			}
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, record)
		}
	}

	if len(preferences) == 0 {
		appendGroup(models.GeneralGroup)
	} else {
		for _, preference := range preferences {
			appendGroup(preference)
		}
	}
	appendGroup(models.OthersGroup)
	return result
}

// RankByRating stable-sorts records by rating descending. Records without a
// rating sort after every rated record instead of being treated as zero.
// Equal ratings keep their flattened preference order.
func RankByRating(records []models.PlaceRecord) []models.PlaceRecord {
	ranked := append([]models.PlaceRecord(nil), records...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := ranked[i].Rating, ranked[j].Rating
		switch {
		case ri != nil && rj == nil:
			return true
		case ri == nil:
			return false
		default:
			return *ri > *rj
		}
	})
	return ranked
}
