package utils

import "strconv"

// BuildOrganizingGenKey holds the current generation of an owner's listing.
// Writes replace it, which orphans every listing cached under the old one.
func BuildOrganizingGenKey(userID int64) string {
	return "meetups:organizing:v2:gen:user=" + strconv.FormatInt(userID, 10)
}

func BuildOrganizingCacheKey(userID int64, gen string) string {
	return "meetups:organizing:v2:user=" + strconv.FormatInt(userID, 10) + ":gen=" + gen
}
