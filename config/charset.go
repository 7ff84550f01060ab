package config

// Named glyph sets. An unrecognized name is treated as literal runes
var charsets = map[string][]rune{
	"matrix":   []rune("ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝ0123456789"),
	"binary":   []rune("01"),
	"ascii":    []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"),
	"symbols":  []rune("!@#$%^&*()_+-=[]{}|;:,./<>?"),
	"greek":    []rune("αβγδεζηθικλμνξοπρστυφχψω"),
	"cyrillic": []rune("абвгдежзийклмнопрстуфхцчшщъыьэюя"),
}

// Charset resolves the configured character set to runes
func (c *Config) Charset() []rune {
	if set, ok := charsets[c.CharacterSet]; ok {
		return set
	}
	return []rune(c.CharacterSet)
}

// CharsetNames lists the built-in set names
func CharsetNames() []string {
	names := make([]string, 0, len(charsets))
	for n := range charsets {
		names = append(names, n)
	}
	return names
}
