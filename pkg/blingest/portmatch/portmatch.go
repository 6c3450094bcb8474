// Package portmatch resolves a free-text port label from a parsed Bill
// of Lading to a UN/LOCODE, following the four-tier match order of
// spec §4.5 step 4.
package portmatch

import (
	"strings"

	"github.com/affreight/shipengine/pkg/domain"
)

// aliases is the static free-text -> UN/LOCODE dictionary checked before
// the catalog itself, grounded on the legacy extractor's own table.
var aliases = map[string]string{
	"PORT KELANG":      "MYPKG",
	"KELANG":           "MYPKG",
	"PORT KLANG":       "MYPKG",
	"KLANG":            "MYPKG",
	"TANJUNG PELEPAS":  "MYTPP",
	"PTP":              "MYTPP",
	"TANJUNG PRIOK":    "IDJKT",
	"PRIOK":            "IDJKT",
	"JAKARTA":          "IDJKT",
	"LAEM CHABANG":     "THLCH",
	"HAIPHONG":         "VNHPH",
	"HO CHI MINH":      "VNSGN",
	"SAIGON":           "VNSGN",
	"VUNG TAU":         "VNVUT",
	"SHANGHAI":         "CNSHA",
	"NINGBO":           "CNNBO",
	"SHENZHEN":         "CNSZX",
	"YANTIAN":          "CNYTN",
	"GUANGZHOU":        "CNGZU",
	"NANSHA":           "CNNSA",
	"BUSAN":            "KRPUS",
	"PUSAN":            "KRPUS",
	"HAMBURG":          "DEHAM",
	"BREMERHAVEN":      "DEBRV",
	"ROTTERDAM":        "NLRTM",
	"ANTWERP":          "BEANR",
	"FELIXSTOWE":       "GBFXT",
	"SINGAPORE":        "SGSIN",
	"HONG KONG":        "HKHKG",
	"DUBAI":            "AEDXB",
	"JEBEL ALI":        "AEJEA",
	"COLOMBO":          "LKCMB",
	"CHENNAI":          "INMAA",
	"MUNDRA":           "INMUN",
	"NHAVA SHEVA":      "INNSA",
	"JAWAHARLAL NEHRU": "INNSA",
	"SYDNEY":           "AUSYD",
	"MELBOURNE":        "AUMEL",
	"LOS ANGELES":      "USLAX",
	"LONG BEACH":       "USLGB",
	"NEW YORK":         "USNYC",
	"SAVANNAH":         "USSAV",
	"PIRAEUS":          "GRPIR",
}

// Match resolves label to a UN/LOCODE against catalog, in order: the
// alias dictionary, a direct 5-letter UN/LOCODE match, an exact catalog
// name match, then a substring match in either direction (spec §4.5
// step 4). Returns "" when nothing matches.
func Match(label string, catalog []domain.Port) string {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	if normalized == "" {
		return ""
	}

	if code, ok := aliases[normalized]; ok {
		return code
	}

	if len(normalized) == 5 && isAllLetters(normalized) {
		for _, p := range catalog {
			if strings.ToUpper(p.UNCode) == normalized {
				return p.UNCode
			}
		}
	}

	for _, p := range catalog {
		if strings.ToUpper(p.Name) == normalized {
			return p.UNCode
		}
	}

	var best string
	for _, p := range catalog {
		name := strings.ToUpper(p.Name)
		if strings.Contains(normalized, name) || strings.Contains(name, normalized) {
			best = p.UNCode
		}
	}
	return best
}

func isAllLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
