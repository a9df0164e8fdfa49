package serp

import (
	"math/rand/v2"
	"strings"
)

// queryTemplates diversify the search surface for one (keyword, location)
// pair. Each carries negative filters for the big directory aggregators so
// their listings don't crowd out company sites.
var queryTemplates = []string{
	"{kw} manufacturers in {city} India -indiamart -tradeindia -justdial -yellowpages -exportersindia",
	"site:.in {kw} {city} supplier -indiamart -tradeindia -justdial -facebook -youtube -pinterest",
	"{kw} {city} factory address -indiamart -tradeindia -justdial -exportersindia",
	"{kw} near {city} company website -indiamart -tradeindia -justdial",
	"{kw} {city} oem tier 1 -indiamart -tradeindia -justdial",
	`inurl:about OR inurl:contact "{kw}" "{city}" -indiamart -tradeindia -justdial -exportersindia`,
	`site:.in "{kw}" "{city}" -indiamart -tradeindia -justdial`,
}

// BuildQueries expands the templates for one keyword/location pair and
// shuffles them, so repeated runs don't hit providers in a cacheable order
// and different templates get first shot at the result budget.
func BuildQueries(keyword, location string) []string {
	r := strings.NewReplacer("{kw}", keyword, "{city}", location)
	queries := make([]string, len(queryTemplates))
	for i, tmpl := range queryTemplates {
		queries[i] = r.Replace(tmpl)
	}
	rand.Shuffle(len(queries), func(i, j int) {
		queries[i], queries[j] = queries[j], queries[i]
	})
	return queries
}
