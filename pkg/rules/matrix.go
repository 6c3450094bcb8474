package rules

import "github.com/affreight/shipengine/pkg/domain"

// incotermGroup buckets the eleven supported incoterms by which party's
// forwarder is expected to book the main carriage. This grouping (and
// the derived task sets below) is the resolution of spec.md's open
// question on matrix exhaustiveness: every (incoterm, transaction_type)
// pair must resolve, so an unrecognized incoterm is a configuration
// error at the path-classification boundary even though task
// generation itself degrades to an empty list (spec §4.1).
type incotermGroup int

const (
	groupBuyerArranged  incotermGroup = iota // EXW, FCA, FAS, FOB, CPT, CIP
	groupSellerArranged                      // CFR, CIF, DAP, DPU, DDP
)

// incotermAliases normalizes legacy/colloquial incoterm spellings seen
// in freight documents (e.g. "CNF" for "CFR") before matrix lookup.
var incotermAliases = map[string]string{
	"CNF": "CFR",
	"C&F": "CFR",
}

var incotermGroups = map[string]incotermGroup{
	"EXW": groupBuyerArranged,
	"FCA": groupBuyerArranged,
	"FAS": groupBuyerArranged,
	"FOB": groupBuyerArranged,
	"CPT": groupBuyerArranged,
	"CIP": groupBuyerArranged,
	"CFR": groupSellerArranged,
	"CIF": groupSellerArranged,
	"DAP": groupSellerArranged,
	"DPU": groupSellerArranged,
	"DDP": groupSellerArranged,
}

// NormalizeIncoterm uppercases, trims aliasing, and resolves the
// legacy spellings in incotermAliases.
func NormalizeIncoterm(incoterm string) string {
	u := upperTrim(incoterm)
	if canonical, ok := incotermAliases[u]; ok {
		return canonical
	}
	return u
}

func upperTrim(s string) string {
	out := make([]byte, 0, len(s))
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	for i := start; i < end; i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// knownIncoterm reports whether incoterm (already normalized) is in the
// matrix.
func knownIncoterm(incoterm string) bool {
	_, ok := incotermGroups[incoterm]
	return ok
}

// PathTag is the two-value path classification from spec §4.1/§4.2.
type PathTag string

const (
	PathA PathTag = "A"
	PathB PathTag = "B"
)

var (
	fullExportChain = []domain.TaskType{
		domain.TaskOriginHaulage, domain.TaskFreightBooking, domain.TaskExportClearance, domain.TaskPOL, domain.TaskPOD,
	}
	fullSellerChain = []domain.TaskType{
		domain.TaskOriginHaulage, domain.TaskFreightBooking, domain.TaskExportClearance, domain.TaskPOL, domain.TaskPOD,
		domain.TaskImportClearance, domain.TaskDestinationHaulage,
	}
	importOnlyChain = []domain.TaskType{
		domain.TaskPOD, domain.TaskImportClearance, domain.TaskDestinationHaulage,
	}
	domesticChain = []domain.TaskType{
		domain.TaskOriginHaulage, domain.TaskDestinationHaulage,
	}
)

// TaskTypesFor resolves the canonical task-type sequence for a
// normalized incoterm and transaction type. ok is false when the
// incoterm is not in the matrix.
func TaskTypesFor(incoterm string, txType domain.TransactionType) (tasks []domain.TaskType, path PathTag, ok bool) {
	if txType == domain.TransactionDomestic {
		return domesticChain, PathB, true
	}

	group, known := incotermGroups[incoterm]
	if !known {
		return nil, "", false
	}

	switch {
	case group == groupBuyerArranged && txType == domain.TransactionExport:
		return fullExportChain, PathA, true
	case group == groupBuyerArranged && txType == domain.TransactionImport:
		return importOnlyChain, PathB, true
	case group == groupSellerArranged && txType == domain.TransactionExport:
		return fullSellerChain, PathA, true
	case group == groupSellerArranged && txType == domain.TransactionImport:
		return importOnlyChain, PathB, true
	}
	return nil, "", false
}
