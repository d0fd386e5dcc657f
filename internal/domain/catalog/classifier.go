package catalog

import (
	"regexp"
	"strings"
)

// The classifier is a set of pure functions over vendor item text. Each
// classification axis is an ordered rule table; rule order is a
// deliberate tie break and must not be rearranged.

// sizeKeywords mark a variation name as size-bearing
var sizeKeywords = []string{
	"small", "medium", "large", "x-large",
	"xl", "2xl", "3xl", "4xl", "5xl",
	"youth", "toddler", "adult", "xs",
	"s.", "m.", "l.",
}

// apparelKeywords mark an item name as apparel
var apparelKeywords = []string{
	"shirt", "t-shirt", "t shirt", "tee",
	"hoodie", "sweatshirt", "crew", "long sleeve", "tank",
}

// garmentRules map name keywords to a garment type, first match wins
var garmentRules = []struct {
	keywords []string
	garment  GarmentType
}{
	{[]string{"hoodie"}, GarmentHoodie},
	{[]string{"sweatshirt", "crew"}, GarmentSweatshirt},
	{[]string{"long sleeve"}, GarmentLongSleeve},
	{[]string{"tank"}, GarmentTank},
}

// subcategoryRules is the ordered theme vocabulary. Order matters: an
// item matching several groups resolves to the earliest one.
var subcategoryRules = []struct {
	name     string
	keywords []string
}{
	{"Christmas", []string{"grinch", "christmas", "xmas", "santa", "elf", "reindeer"}},
	{"Thanksgiving", []string{"thanksgiving", "turkey", "gobble", "thankful", "fall", "autumn"}},
	{"Halloween", []string{"halloween", "witch", "ghost", "pumpkin", "spooky", "boo", "skeleton"}},
	{"Valentine", []string{"valentine", "valentines", "love", "heart", "cupid"}},
	{"Easter", []string{"easter", "bunny", "egg", "resurrection"}},
	{"Patriotic", []string{"usa", "american", "america", "flag", "patriotic", "freedom", "merica", "4th of july", "independence"}},
	{"Faith", []string{"faith", "jesus", "cross", "blessed", "bible", "pray", "prayer", "church", "god "}},
	{"Animals", []string{"dog", "dogs", "cat", "cow", "goat", "chicken", "horse", "animal", "paw"}},
	{"Hunting & Fishing", []string{"hunt", "hunting", "deer", "buck", "duck", "antler", "fishing", "fish", "bass", "crappie", "rifle", "bowhunting", "bow hunting"}},
	{"Sports", []string{"football", "baseball", "softball", "basketball", "soccer", "sports", "touchdown", "homerun", "home run"}},
	{"Humor / Trendy", []string{"sarcasm", "funny", "humor", "snark", "trendy", "meme", "coffee", "wine"}},
}

// femaleNameKeywords hint that a design targets women
var femaleNameKeywords = []string{
	"mama", "wife", "girly", "girl", "swiftie",
	"bow", "ballerina", "cheer", "dance",
}

// femaleColorWords hint that a colorway targets women
var femaleColorWords = []string{
	"pink", "hot pink", "light pink", "dark pink",
	"peach", "coral", "mint", "lavender", "purple", "rose",
}

var (
	ageSizePattern = regexp.MustCompile(`^\d+t$`)
	// recovers the color from a single-part name like "Hot Pink Youth X-Small"
	// where the multi-word size phrase would otherwise swallow it
	youthXSmallPattern = regexp.MustCompile(`(?i)^(.+\S)\s+(youth\s+x-small)$`)
)

// letterSizes are exact-match single-token sizes
var letterSizes = map[string]struct{}{
	"s": {}, "m": {}, "l": {}, "xs": {}, "xxl": {},
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsInDomain reports whether a vendor item belongs to the apparel
// domain: an apparel keyword in the item name or any variation name, or
// a size keyword in any variation name. Items without variations are
// never in domain.
func IsInDomain(name string, variationNames []string) bool {
	if len(variationNames) == 0 {
		return false
	}
	if containsAny(strings.ToLower(name), apparelKeywords) {
		return true
	}
	for _, vn := range variationNames {
		lower := strings.ToLower(vn)
		if containsAny(lower, apparelKeywords) || containsAny(lower, sizeKeywords) {
			return true
		}
	}
	return false
}

// InferGarmentType scans name keywords in fixed priority order,
// defaulting to T-Shirt
func InferGarmentType(name string) GarmentType {
	lower := strings.ToLower(name)
	for _, rule := range garmentRules {
		if containsAny(lower, rule.keywords) {
			return rule.garment
		}
	}
	return GarmentTShirt
}

// VariationAttrs holds size and color parsed from a variation name.
// Nil means the attribute was not present.
type VariationAttrs struct {
	Size  *string
	Color *string
}

func isSizeToken(lower string) bool {
	if _, ok := letterSizes[lower]; ok {
		return true
	}
	if ageSizePattern.MatchString(lower) {
		return true
	}
	return strings.Contains(lower, "small") ||
		strings.Contains(lower, "medium") ||
		strings.Contains(lower, "large") ||
		strings.Contains(lower, "xl") ||
		strings.Contains(lower, "youth") ||
		strings.Contains(lower, "toddler") ||
		strings.Contains(lower, "2t") ||
		strings.Contains(lower, "3t") ||
		strings.Contains(lower, "4t") ||
		strings.Contains(lower, "5t")
}

func isGarmentWord(lower string) bool {
	return strings.Contains(lower, "shirt") ||
		strings.Contains(lower, "t-shirt") ||
		strings.Contains(lower, "tee") ||
		strings.Contains(lower, "tank") ||
		strings.Contains(lower, "hoodie") ||
		strings.Contains(lower, "sweatshirt")
}

// normalizeSize maps the bare words small/medium/large to their short
// form; every other size token is kept verbatim
func normalizeSize(token string) string {
	switch strings.ToLower(token) {
	case "small":
		return "S"
	case "medium":
		return "M"
	case "large":
		return "L"
	}
	return token
}

// ParseVariation splits a variation name on comma/slash separators and
// extracts at most one size and one color. Unmatched parts are dropped.
func ParseVariation(name string) VariationAttrs {
	var attrs VariationAttrs
	if name == "" {
		return attrs
	}

	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == ',' || r == '/'
	})

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lower := strings.ToLower(part)

		if m := youthXSmallPattern.FindStringSubmatch(part); m != nil {
			head := strings.ToLower(m[1])
			if !isSizeToken(head) && !isGarmentWord(head) {
				if attrs.Color == nil {
					color := m[1]
					attrs.Color = &color
				}
				if attrs.Size == nil {
					size := m[2]
					attrs.Size = &size
				}
				continue
			}
		}

		if isSizeToken(lower) {
			if attrs.Size == nil {
				size := normalizeSize(part)
				attrs.Size = &size
			}
		} else if !isGarmentWord(lower) && attrs.Color == nil {
			color := part
			attrs.Color = &color
		}
	}

	return attrs
}

// hasWordOrTag reports whether the description contains the word
// bounded by spaces, or the bracketed [tag] form
func hasWordOrTag(descLower, base string) bool {
	padded := " " + descLower + " "
	word := strings.ToLower(base)
	return strings.Contains(padded, " "+word+" ") ||
		strings.Contains(padded, "["+word+"]")
}

func isYouthSizeName(lower string) bool {
	return strings.Contains(lower, "youth") ||
		strings.Contains(lower, "toddler") ||
		strings.Contains(lower, "4t") ||
		strings.Contains(lower, "3t") ||
		strings.Contains(lower, "2t") ||
		ageSizePattern.MatchString(strings.TrimSpace(lower))
}

// InferAudience derives the audience set for an item. Explicit
// tags/words in the description override automatic inference entirely.
// An empty result means no audience was detected; the default
// presentation of that case is the caller's call.
func InferAudience(name string, variationNames []string, description string) []Audience {
	var audiences []Audience
	n := strings.ToLower(name)
	d := strings.ToLower(description)

	if hasWordOrTag(d, "women") || hasWordOrTag(d, "womens") {
		audiences = append(audiences, AudienceWomen)
	}
	if hasWordOrTag(d, "men/unisex") || hasWordOrTag(d, "men") || hasWordOrTag(d, "unisex") {
		audiences = append(audiences, AudienceMenUnisex)
	}
	if hasWordOrTag(d, "kids") || hasWordOrTag(d, "youth") {
		audiences = append(audiences, AudienceKids)
	}
	if len(audiences) > 0 {
		return audiences
	}

	var hasYouth, hasAdult bool
	for _, vn := range variationNames {
		lower := strings.ToLower(vn)
		if isYouthSizeName(lower) {
			hasYouth = true
		} else if strings.TrimSpace(lower) != "" {
			hasAdult = true
		}
	}
	if strings.Contains(n, "youth") || strings.Contains(n, "toddler") ||
		strings.Contains(n, "kid") || strings.Contains(n, "4t") ||
		strings.Contains(n, "3t") || strings.Contains(n, "2t") {
		hasYouth = true
	}
	if hasYouth {
		audiences = append(audiences, AudienceKids)
	}

	variationText := strings.ToLower(strings.Join(variationNames, " "))
	isFemaleDesign := containsAny(n, femaleNameKeywords) ||
		containsAny(variationText, femaleColorWords) ||
		strings.Contains(n, "women") ||
		strings.Contains(n, "ladies") ||
		strings.Contains(n, "female")

	if hasAdult && isFemaleDesign {
		audiences = append(audiences, AudienceWomen)
	}

	return audiences
}

// InferSubcategory matches concatenated name+description text against
// the ordered theme groups; empty string when nothing matches
func InferSubcategory(name, description string) string {
	text := strings.ToLower(name + " " + description)
	for _, rule := range subcategoryRules {
		if containsAny(text, rule.keywords) {
			return rule.name
		}
	}
	return ""
}

// isPlaceholderTemplate recognizes the vendor's generic untitled
// "T-Shirt" template: no image, no parsed sizes, every color "regular"
func isPlaceholderTemplate(raw RawProduct, parsed []VariationAttrs) bool {
	if raw.Name != "T-Shirt" || raw.ImageURL != "" {
		return false
	}
	for _, p := range parsed {
		if p.Size != nil {
			return false
		}
		if p.Color == nil || !strings.EqualFold(*p.Color, "regular") {
			return false
		}
	}
	return true
}

// Classify decides whether a raw vendor item belongs in the shop's
// domain and, if so, produces an Item skeleton with derived display
// metadata and no quantities. The second return is false for items
// outside the domain.
func Classify(raw RawProduct) (*Item, bool) {
	if len(raw.Variations) == 0 {
		return nil, false
	}

	variationNames := make([]string, len(raw.Variations))
	for i, v := range raw.Variations {
		variationNames[i] = v.Name
	}

	if !IsInDomain(raw.Name, variationNames) {
		return nil, false
	}

	parsed := make([]VariationAttrs, len(raw.Variations))
	for i, vn := range variationNames {
		parsed[i] = ParseVariation(vn)
	}
	if isPlaceholderTemplate(raw, parsed) {
		return nil, false
	}

	item := &Item{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Garment:     InferGarmentType(raw.Name),
		Audiences:   InferAudience(raw.Name, variationNames, raw.Description),
		Subcategory: InferSubcategory(raw.Name, raw.Description),
		ImageURL:    raw.ImageURL,
		Variations:  make([]Variation, len(raw.Variations)),
	}
	for i, v := range raw.Variations {
		item.Variations[i] = Variation{
			ID:    v.ID,
			Name:  v.Name,
			Size:  parsed[i].Size,
			Color: parsed[i].Color,
			Price: v.Price,
		}
	}
	return item, true
}

func equalFold(field *string, value string) bool {
	if field == nil {
		return value == ""
	}
	return strings.EqualFold(*field, value)
}
