// internal/career/skillgap/encoder.go
package skillgap

// NotInterested is the rating assumed for a dimension the user did not rate.
const NotInterested = "Not Interested"

// Catalog is the ordered list of skill dimensions. Index i of every vector
// refers to Catalog[i].
type Catalog []string

// RatingScale maps a qualitative rating label to its ordinal score.
type RatingScale map[string]int

// Vector holds one score per catalog dimension.
type Vector []int

// Score returns the ordinal value for label. Labels outside the scale score 0.
func (s RatingScale) Score(label string) int {
	if v, ok := s[label]; ok {
		return v
	}
	return 0
}

// Encode converts a user's ratings into a vector aligned with catalog.
// Dimensions missing from ratings are treated as NotInterested.
func Encode(ratings map[string]string, catalog Catalog, scale RatingScale) Vector {
	out := make(Vector, len(catalog))
	for i, dim := range catalog {
		label, ok := ratings[dim]
		if !ok {
			label = NotInterested
		}
		out[i] = scale.Score(label)
	}
	return out
}
