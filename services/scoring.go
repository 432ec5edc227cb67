// services/scoring.go
package services

// MatchPoints computes the points for a single successful match.
// comboIndex is the 1-based position of the match in the current combo
// streak; the combo bonus is floored to whole points.
func MatchPoints(basePoints, levelMultiplier, comboIndex int, comboBonusPerMatch float64) int {
	return basePoints + levelMultiplier + int(float64(comboIndex)*comboBonusPerMatch)
}

// TotalScore sums MatchPoints over matchCount matches played as one
// uninterrupted combo streak. Used for live scoring and for the admin
// difficulty preview.
func TotalScore(matchCount, basePoints, levelMultiplier int, comboBonusPerMatch float64) int {
	total := 0
	for i := 1; i <= matchCount; i++ {
		total += MatchPoints(basePoints, levelMultiplier, i, comboBonusPerMatch)
	}
	return total
}
