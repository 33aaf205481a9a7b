// Package dedup decides whether a freshly extracted business record
// duplicates one already accepted in the same run. The criteria are
// heuristic: the fuzzy name+address rule can produce both false positives
// and false negatives, which is an accepted tradeoff.
package dedup

import (
	"regexp"
	"strings"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/pkg/utils"
)

var (
	punctRegex  = regexp.MustCompile(`[^\w\s]`)
	streetRegex = regexp.MustCompile(`(\d+)\s+([a-zA-Z\s]+)`)
)

// Legal-entity suffixes and connective tokens stripped before fuzzy name
// comparison.
var entitySuffixes = map[string]struct{}{
	"s.a.": {}, "srl": {}, "sa": {}, "ltda": {}, "inc": {},
	"corp": {}, "ltd": {}, "llc": {}, "&": {}, "and": {}, "y": {},
}

// Generic address words excluded when counting shared tokens.
var genericAddressWords = map[string]struct{}{
	"calle": {}, "avenida": {}, "street": {}, "avenue": {},
}

// IsDuplicate reports whether candidate matches any record in accepted under
// the ordered criteria: exact name, normalized phone, normalized website URL,
// then fuzzy name plus address similarity.
func IsDuplicate(candidate *entity.Business, accepted []*entity.Business) bool {
	if candidate == nil || candidate.Name == "" {
		return false
	}

	name := strings.ToLower(strings.TrimSpace(candidate.Name))
	phone := utils.NormalizePhone(candidate.Phone)
	website := utils.NormalizeURL(candidate.Website)
	address := strings.ToLower(strings.TrimSpace(candidate.Address))

	for _, existing := range accepted {
		if existing == nil || existing.Name == "" {
			continue
		}

		existingName := strings.ToLower(strings.TrimSpace(existing.Name))
		if name == existingName {
			return true
		}

		if phone != "" {
			if existingPhone := utils.NormalizePhone(existing.Phone); existingPhone != "" && phone == existingPhone {
				return true
			}
		}

		if website != "" {
			if existingSite := utils.NormalizeURL(existing.Website); existingSite != "" && website == existingSite {
				return true
			}
		}

		existingAddress := strings.ToLower(strings.TrimSpace(existing.Address))
		if similarNames(name, existingName) && address != "" && existingAddress != "" &&
			similarAddresses(address, existingAddress) {
			return true
		}
	}
	return false
}

// similarNames reports whether one cleaned name is a substring of the other.
// Both cleaned names must be longer than 5 characters to compare.
func similarNames(name1, name2 string) bool {
	clean1 := cleanName(name1)
	clean2 := cleanName(name2)
	if len(clean1) <= 5 || len(clean2) <= 5 {
		return false
	}
	return strings.Contains(clean1, clean2) || strings.Contains(clean2, clean1)
}

func cleanName(name string) string {
	cleaned := punctRegex.ReplaceAllString(strings.ToLower(name), " ")
	var kept []string
	for _, word := range strings.Fields(cleaned) {
		if _, skip := entitySuffixes[word]; skip {
			continue
		}
		if len(word) <= 2 {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// similarAddresses reports whether two addresses point at the same place:
// either the leading street number + street-name prefix matches, or the
// addresses share at least two significant tokens.
func similarAddresses(addr1, addr2 string) bool {
	if addr1 == "" || addr2 == "" {
		return false
	}

	num1, street1, ok1 := streetInfo(addr1)
	num2, street2, ok2 := streetInfo(addr2)
	if ok1 && ok2 && num1 == num2 && prefix(street1, 10) == prefix(street2, 10) {
		return true
	}

	tokens1 := strings.Fields(addr1)
	tokens2 := make(map[string]struct{})
	for _, t := range strings.Fields(addr2) {
		tokens2[t] = struct{}{}
	}

	shared := 0
	for _, t := range tokens1 {
		if len(t) <= 4 {
			continue
		}
		if _, generic := genericAddressWords[t]; generic {
			continue
		}
		if _, ok := tokens2[t]; ok {
			shared++
			// Avoid double-counting repeated tokens.
			delete(tokens2, t)
		}
	}
	return shared >= 2
}

func streetInfo(addr string) (number, street string, ok bool) {
	match := streetRegex.FindStringSubmatch(addr)
	if match == nil {
		return "", "", false
	}
	return match[1], strings.TrimSpace(match[2]), true
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
