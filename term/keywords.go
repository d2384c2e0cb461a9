package term

import "regexp"

// Pattern tables for the four extraction layers. These are configuration
// data: swapping jurisdictions or keyword sets means editing this file,
// not the pipeline in extractor.go.

// keywordCategory is an ordered group of legal keywords. Category order
// fixes the combination order of the keyword layer.
type keywordCategory struct {
	name  string
	terms []string
}

var legalKeywords = []keywordCategory{
	{
		// Core PDPA terms (high priority)
		name: "core_pdpa",
		terms: []string{
			"personal data", "sensitive data", "data protection", "privacy",
			"consent", "breach", "notification", "pdpa", "pdpc",
		},
	},
	{
		// Data processing actions (important verbs)
		name: "actions",
		terms: []string{
			"collect", "use", "disclose", "process", "store", "transfer",
			"share", "access", "expose", "leak", "send", "transmit",
		},
	},
	{
		// Data types and subjects
		name: "data_types",
		terms: []string{
			"records", "information", "data", "details",
			"patient records", "medical records", "health records",
			"customer information", "financial information",
			"email", "phone", "contact", "location",
		},
	},
	{
		// Legal entities and roles
		name: "entities",
		terms: []string{
			"hospital", "bank", "company", "organisation", "business",
			"insurance company", "data controller", "data processor",
			"individual", "patient", "customer", "employee", "third party",
		},
	},
	{
		// Important context/modifier words
		name: "context",
		terms: []string{
			"without", "unauthorized", "proper", "explicit", "adequate",
			"overseas", "international", "cross-border",
		},
	},
}

// contextWords are negation, qualification, location, temporal and
// severity words the context-qualifier layer looks for.
var contextWords = []string{
	// Negation and qualification
	"without", "not", "no", "unauthorized", "improper", "inadequate",
	"proper", "adequate", "appropriate", "explicit", "informed",

	// Location/transfer context
	"overseas", "international", "cross-border", "foreign", "domestic",

	// Time/manner context
	"immediately", "promptly", "delayed", "failed", "successful",

	// Severity/impact words
	"major", "minor", "significant", "massive", "widespread", "limited",
}

// dataTypePatterns match specific data-type phrases. Multi-group matches
// are joined with spaces; anything longer than four words is discarded.
var dataTypePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(email|emails)\b`),
	regexp.MustCompile(`\b(phone|telephone|mobile)\s*(number|numbers)?\b`),
	regexp.MustCompile(`\b(sms|text)\s*(messages?|marketing)?\b`),
	regexp.MustCompile(`\b(credit card|payment)\s*(information|data|details)?\b`),
	regexp.MustCompile(`\b(location|gps)\s*(data|information|history)?\b`),
	regexp.MustCompile(`\b(user\s+profiles?|customer\s+profiles?)\b`),
	regexp.MustCompile(`\b(behavioral|behaviour)\s*(analytics?|data)?\b`),
	regexp.MustCompile(`\b(biometric|fingerprint|facial)\s*(data|information)?\b`),
	regexp.MustCompile(`\b(health|medical|patient)\s*(records|information|data)\b`),
	regexp.MustCompile(`\b(financial|banking)\s*(information|data|records|statements)\b`),
	regexp.MustCompile(`\b(performance\s+appraisals?|performance\s+reviews?)\b`),
	regexp.MustCompile(`\b(account\s+balances?|bank\s+statements?)\b`),
	regexp.MustCompile(`\b(contact\s+information|contact\s+details)\b`),
	regexp.MustCompile(`\b(customer|client|patient|employee|alumni)\s*(information|data|records)?\b`),
}

// knownPlaces and knownOrgs are gazetteers for the entity layer.
var knownPlaces = []string{
	"singapore", "malaysia", "thailand", "indonesia", "vietnam", "philippines",
	"usa", "america", "europe", "china", "india", "japan", "korea", "australia",
}

var knownOrgs = []string{
	"grab", "shopee", "lazada", "gojek", "foodpanda",
	"dbs", "ocbc", "uob", "maybank", "citibank",
	"google", "facebook", "microsoft", "apple", "amazon",
}

// commonWordStoplist rejects NER spans that are ordinary English words.
var commonWordStoplist = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	"from": true, "up": true, "about": true, "into": true, "during": true,
	"before": true, "after": true, "such": true, "than": true,
	"can": true, "will": true, "just": true, "should": true, "now": true,
	"may": true, "also": true, "were": true, "been": true,
}

// synonymGroup collapses spelling variants to one canonical term. A group
// is consumed at most once across a term list.
type synonymGroup struct {
	members   []string
	canonical string
}

var synonymGroups = []synonymGroup{
	{members: []string{"email", "emails", "email address"}, canonical: "email"},
	{members: []string{"phone", "phone number", "telephone"}, canonical: "phone number"},
	{members: []string{"data", "information"}, canonical: "data"},
	{members: []string{"company", "organisation", "organization"}, canonical: "company"},
	{members: []string{"customer", "client"}, canonical: "customer"},
	{members: []string{"records", "record"}, canonical: "records"},
}

// highPriorityTerms get a flat scoring bonus.
var highPriorityTerms = map[string]bool{
	"personal data": true,
	"consent":       true,
	"breach":        true,
	"without":       true,
	"unauthorized":  true,
}

// dataIndicators: containing any of these substrings earns a data-type
// scoring bonus.
var dataIndicators = []string{"email", "phone", "records", "information", "data"}
