package legend

import (
	"sort"
	"strings"
)

var translations = map[string]map[string]string{
	"en": {
		"header":            "Layer Info",
		"header_multi":      "{} Legend",
		"menu_config":       "--- CONFIGURATION ---",
		"menu_font":         "🔠 Change Font",
		"menu_text_color":   "🎨 Text Color",
		"menu_bg_color":     "⬜ Background Color",
		"menu_border_color": "🖼️ Border Color",
		"menu_style":        "🎭 Switch Style",
		"style_std":         "📦 Modern (Box)",
		"style_mini":        "✨ Minimalist (Clean)",
		"show_count":        "🔢 Show Count",
		"show_percent":      "％ Show Percentage",
		"export_mif":        "📁 Export MIF (Hardcode Thematic)",
		"export_kmz":        "🌍 Export KMZ (Google Earth)",
		"about":             "ℹ️ About & Help",
		"lang":              "🌐 Language / Bahasa",
		"success":           "Success",
		"export_success":    "Export Successful!",
		"file_saved":        "File saved at:\n{}",
		"warning":           "Warning",
		"select_layer":      "Please select a vector layer first!",
		"exporting_mif":     "Exporting MIF...",
		"exporting_kmz":     "Exporting KMZ...",
		"canceled":          "Export canceled, partial file kept.",
	},
	"id": {
		"header":            "Info Layer",
		"header_multi":      "{} Legend",
		"menu_config":       "--- KONFIGURASI ---",
		"menu_font":         "🔠 Ganti Font",
		"menu_text_color":   "🎨 Warna Teks",
		"menu_bg_color":     "⬜ Warna Background",
		"menu_border_color": "🖼️ Warna Border",
		"menu_style":        "🎭 Ganti Tampilan",
		"style_std":         "📦 Modern (Box)",
		"style_mini":        "✨ Minimalis (Clean)",
		"show_count":        "🔢 Tampilkan Jumlah",
		"show_percent":      "％ Tampilkan Persentase",
		"export_mif":        "📁 Export MIF (Hardcode Thematic)",
		"export_kmz":        "🌍 Export KMZ (Google Earth)",
		"about":             "ℹ️ Tentang & Bantuan",
		"lang":              "🌐 Bahasa / Language",
		"success":           "Sukses",
		"export_success":    "Export Berhasil!",
		"file_saved":        "File disimpan di:\n{}",
		"warning":           "Peringatan",
		"select_layer":      "Pilih layer vektor aktif dulu, Lur!",
		"exporting_mif":     "Mengekspor MIF...",
		"exporting_kmz":     "Mengekspor KMZ...",
		"canceled":          "Export dibatalkan, file sebagian disimpan.",
	},
}

// Tr returns the string for key in lang. Unknown languages and keys missing
// from lang fall back to English, then to the key itself.
func Tr(lang, key string) string {
	if s, ok := translations[lang][key]; ok {
		return s
	}
	if s, ok := translations[DefaultLang][key]; ok {
		return s
	}
	return key
}

// Trf is Tr with "{}" placeholders substituted in order.
func Trf(lang, key string, args ...string) string {
	s := Tr(lang, key)
	for _, a := range args {
		s = strings.Replace(s, "{}", a, 1)
	}
	return s
}

// Languages returns the supported language codes in sorted order.
func Languages() []string {
	langs := make([]string, 0, len(translations))
	for l := range translations {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// IsLanguage reports whether lang has a string table.
func IsLanguage(lang string) bool {
	_, ok := translations[lang]
	return ok
}
