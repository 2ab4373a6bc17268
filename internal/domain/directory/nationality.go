package directory

import (
	"sort"
	"strings"
)

type nationalityNames struct {
	English string
	Arabic  string
}

var nationalities = map[string]nationalityNames{
	"SY": {"Syrian", "سوري"},
	"TR": {"Turkish", "تركي"},
	"IN": {"Indian", "هندي"},
	"PK": {"Pakistani", "باكستاني"},
	"IR": {"Iranian", "إيراني"},
	"PH": {"Filipino", "فلبيني"},
	"EG": {"Egyptian", "مصري"},
	"JO": {"Jordanian", "أردني"},
	"LB": {"Lebanese", "لبناني"},
	"IQ": {"Iraqi", "عراقي"},
	"SA": {"Saudi", "سعودي"},
	"AE": {"Emirati", "إماراتي"},
	"KW": {"Kuwaiti", "كويتي"},
	"QA": {"Qatari", "قطري"},
	"BH": {"Bahraini", "بحريني"},
	"OM": {"Omani", "عماني"},
	"YE": {"Yemeni", "يمني"},
	"PS": {"Palestinian", "فلسطيني"},
	"BD": {"Bangladeshi", "بنغلاديشي"},
	"LK": {"Sri Lankan", "سريلانكي"},
	"NP": {"Nepalese", "نيبالي"},
	"AF": {"Afghan", "أفغاني"},
	"ET": {"Ethiopian", "إثيوبي"},
	"SO": {"Somali", "صومالي"},
	"SD": {"Sudanese", "سوداني"},
	"MA": {"Moroccan", "مغربي"},
	"TN": {"Tunisian", "تونسي"},
	"DZ": {"Algerian", "جزائري"},
	"LY": {"Libyan", "ليبي"},
	"US": {"American", "أمريكي"},
	"GB": {"British", "بريطاني"},
	"FR": {"French", "فرنسي"},
	"DE": {"German", "ألماني"},
	"IT": {"Italian", "إيطالي"},
	"ES": {"Spanish", "إسباني"},
	"RU": {"Russian", "روسي"},
	"CN": {"Chinese", "صيني"},
	"JP": {"Japanese", "ياباني"},
	"KR": {"Korean", "كوري"},
	"TH": {"Thai", "تايلندي"},
	"MY": {"Malaysian", "ماليزي"},
	"ID": {"Indonesian", "إندونيسي"},
	"VN": {"Vietnamese", "فيتنامي"},
	"MM": {"Myanmar", "ميانماري"},
	"KH": {"Cambodian", "كمبودي"},
	"LA": {"Laotian", "لاوسي"},
	"BR": {"Brazilian", "برازيلي"},
	"AR": {"Argentine", "أرجنتيني"},
	"CL": {"Chilean", "تشيلي"},
	"PE": {"Peruvian", "بيروفي"},
	"CO": {"Colombian", "كولومبي"},
	"VE": {"Venezuelan", "فنزويلي"},
	"MX": {"Mexican", "مكسيكي"},
	"CA": {"Canadian", "كندي"},
	"AU": {"Australian", "أسترالي"},
	"NZ": {"New Zealander", "نيوزيلندي"},
	"ZA": {"South African", "جنوب أفريقي"},
	"NG": {"Nigerian", "نيجيري"},
	"KE": {"Kenyan", "كيني"},
	"UG": {"Ugandan", "أوغندي"},
	"TZ": {"Tanzanian", "تنزاني"},
	"GH": {"Ghanaian", "غاني"},
	"CI": {"Ivorian", "إيفواري"},
	"SN": {"Senegalese", "سنغالي"},
	"ML": {"Malian", "مالي"},
	"BF": {"Burkinabe", "بوركيني"},
	"NE": {"Nigerien", "نيجري"},
	"TD": {"Chadian", "تشادي"},
	"CF": {"Central African", "أفريقيا الوسطى"},
	"CM": {"Cameroonian", "كاميروني"},
	"GA": {"Gabonese", "غابوني"},
	"CG": {"Congolese", "كونغولي"},
	"CD": {"Congolese (DRC)", "كونغولي (جمهورية)"},
	"AO": {"Angolan", "أنغولي"},
	"ZM": {"Zambian", "زامبي"},
	"ZW": {"Zimbabwean", "زيمبابوي"},
	"BW": {"Botswanan", "بوتسواني"},
	"MZ": {"Mozambican", "موزمبيقي"},
	"MG": {"Malagasy", "مدغشقري"},
	"MU": {"Mauritian", "موريشي"},
	"SC": {"Seychellois", "سيشيلي"},
	"RE": {"Reunionese", "ريونيوني"},
	"YT": {"Mahoran", "مايوتي"},
}

// NationalityName resolves a code to its display name; unknown codes fall
// back to the code itself.
func NationalityName(code, language string) string {
	names, ok := nationalities[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return code
	}
	if language == "ar" {
		return names.Arabic
	}
	return names.English
}

// MatchNationalityCodes expands a nationality filter value into the set of
// codes it refers to: an exact code wins, otherwise the input is matched as a
// case-insensitive substring of either display name. Unknown input falls back
// to itself so the filter still compares against the stored code.
func MatchNationalityCodes(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	if _, ok := nationalities[strings.ToUpper(trimmed)]; ok {
		return []string{strings.ToUpper(trimmed)}
	}

	needle := strings.ToLower(trimmed)
	var codes []string
	for code, names := range nationalities {
		if strings.Contains(strings.ToLower(names.English), needle) || strings.Contains(names.Arabic, trimmed) {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return []string{trimmed}
	}
	sort.Strings(codes)
	return codes
}
