// Package units 負責單位正規化與固定比例的單位換算（不做體積與重量互換）
package units

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unit 標準單位
type Unit string

const (
	Teaspoon   Unit = "tsp"
	Tablespoon Unit = "tbsp"
	Cup        Unit = "cup"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Ounce      Unit = "oz"
	Pound      Unit = "lb"
)

// Dimension 單位量綱
type Dimension int

const (
	Volume Dimension = iota + 1
	Weight
)

// Dimension 回傳單位所屬量綱
func (u Unit) Dimension() Dimension {
	switch u {
	case Teaspoon, Tablespoon, Cup, Milliliter, Liter:
		return Volume
	case Gram, Kilogram, Ounce, Pound:
		return Weight
	default:
		return 0
	}
}

// Metric 是否為公制單位（顯示時使用小數而非分數）
func (u Unit) Metric() bool {
	switch u {
	case Milliliter, Liter, Gram, Kilogram:
		return true
	default:
		return false
	}
}

// Region 單位字彙所屬語系
type Region string

const (
	RegionNone    Region = ""
	RegionItalian Region = "it"
	RegionSpanish Region = "es"
	RegionFrench  Region = "fr"
	RegionGerman  Region = "de"
)

// 換算比例（以 ml / g 為基準）
const (
	mlPerTeaspoon   = 5.0
	mlPerTablespoon = 15.0
	mlPerCup        = 240.0
	mlPerLiter      = 1000.0
	gramsPerOunce   = 28.349523125
	gramsPerPound   = 453.59237
	gramsPerKilo    = 1000.0
)

type synonym struct {
	unit   Unit
	region Region
}

// synonyms 以去除變音符號、小寫、移除句點後的字串為鍵
var synonyms = map[string]synonym{
	// 英文 / 通用
	"tsp":         {Teaspoon, RegionNone},
	"tsps":        {Teaspoon, RegionNone},
	"teaspoon":    {Teaspoon, RegionNone},
	"teaspoons":   {Teaspoon, RegionNone},
	"tbsp":        {Tablespoon, RegionNone},
	"tbsps":       {Tablespoon, RegionNone},
	"tbs":         {Tablespoon, RegionNone},
	"tbl":         {Tablespoon, RegionNone},
	"tablespoon":  {Tablespoon, RegionNone},
	"tablespoons": {Tablespoon, RegionNone},
	"cup":         {Cup, RegionNone},
	"cups":        {Cup, RegionNone},
	"ml":          {Milliliter, RegionNone},
	"mls":         {Milliliter, RegionNone},
	"milliliter":  {Milliliter, RegionNone},
	"milliliters": {Milliliter, RegionNone},
	"millilitre":  {Milliliter, RegionNone},
	"millilitres": {Milliliter, RegionNone},
	"l":           {Liter, RegionNone},
	"lt":          {Liter, RegionNone},
	"liter":       {Liter, RegionNone},
	"liters":      {Liter, RegionNone},
	"litre":       {Liter, RegionNone},
	"litres":      {Liter, RegionNone},
	"g":           {Gram, RegionNone},
	"gr":          {Gram, RegionNone},
	"gram":        {Gram, RegionNone},
	"grams":       {Gram, RegionNone},
	"gramme":      {Gram, RegionNone},
	"grammes":     {Gram, RegionNone},
	"kg":          {Kilogram, RegionNone},
	"kilo":        {Kilogram, RegionNone},
	"kilos":       {Kilogram, RegionNone},
	"kilogram":    {Kilogram, RegionNone},
	"kilograms":   {Kilogram, RegionNone},
	"kilogramme":  {Kilogram, RegionNone},
	"oz":          {Ounce, RegionNone},
	"ounce":       {Ounce, RegionNone},
	"ounces":      {Ounce, RegionNone},
	"lb":          {Pound, RegionNone},
	"lbs":         {Pound, RegionNone},
	"pound":       {Pound, RegionNone},
	"pounds":      {Pound, RegionNone},

	// 義大利文
	"cucchiaino":  {Teaspoon, RegionItalian},
	"cucchiaini":  {Teaspoon, RegionItalian},
	"cucchiaio":   {Tablespoon, RegionItalian},
	"cucchiai":    {Tablespoon, RegionItalian},
	"tazza":       {Cup, RegionItalian},
	"tazze":       {Cup, RegionItalian},
	"millilitro":  {Milliliter, RegionItalian},
	"litro":       {Liter, RegionItalian},
	"millilitri":  {Milliliter, RegionItalian},
	"litri":       {Liter, RegionItalian},
	"grammo":      {Gram, RegionItalian},
	"grammi":      {Gram, RegionItalian},
	"chilogrammo": {Kilogram, RegionItalian},
	"chilogrammi": {Kilogram, RegionItalian},

	// 西班牙文
	"cucharadita":  {Teaspoon, RegionSpanish},
	"cucharaditas": {Teaspoon, RegionSpanish},
	"cucharada":    {Tablespoon, RegionSpanish},
	"cucharadas":   {Tablespoon, RegionSpanish},
	"taza":         {Cup, RegionSpanish},
	"tazas":        {Cup, RegionSpanish},
	"mililitro":    {Milliliter, RegionSpanish},
	"mililitros":   {Milliliter, RegionSpanish},
	"litros":       {Liter, RegionSpanish},
	"gramo":        {Gram, RegionSpanish},
	"gramos":       {Gram, RegionSpanish},
	"kilogramo":    {Kilogram, RegionSpanish},
	"kilogramos":   {Kilogram, RegionSpanish},

	// 法文
	"cuillere a cafe":   {Teaspoon, RegionFrench},
	"cuilleres a cafe":  {Teaspoon, RegionFrench},
	"c a cafe":          {Teaspoon, RegionFrench},
	"cac":               {Teaspoon, RegionFrench},
	"c a c":             {Teaspoon, RegionFrench},
	"cuillere a soupe":  {Tablespoon, RegionFrench},
	"cuilleres a soupe": {Tablespoon, RegionFrench},
	"c a soupe":         {Tablespoon, RegionFrench},
	"cas":               {Tablespoon, RegionFrench},
	"c a s":             {Tablespoon, RegionFrench},
	"tasse":             {Cup, RegionFrench},
	"tasses":            {Cup, RegionFrench},

	// 德文
	"tl":        {Teaspoon, RegionGerman},
	"teeloffel": {Teaspoon, RegionGerman},
	"el":        {Tablespoon, RegionGerman},
	"essloffel": {Tablespoon, RegionGerman},
	"tassen":    {Cup, RegionGerman},
	"gramm":     {Gram, RegionGerman},
	"kilogramm": {Kilogram, RegionGerman},
}

type label struct {
	one   string
	other string
}

// regionalLabels 各語系的烹飪單位名稱
var regionalLabels = map[Region]map[Unit]label{
	RegionNone: {
		Teaspoon:   {"tsp", "tsp"},
		Tablespoon: {"tbsp", "tbsp"},
		Cup:        {"cup", "cups"},
	},
	RegionItalian: {
		Teaspoon:   {"cucchiaino", "cucchiaini"},
		Tablespoon: {"cucchiaio", "cucchiai"},
		Cup:        {"tazza", "tazze"},
	},
	RegionSpanish: {
		Teaspoon:   {"cucharadita", "cucharaditas"},
		Tablespoon: {"cucharada", "cucharadas"},
		Cup:        {"taza", "tazas"},
	},
	RegionFrench: {
		Teaspoon:   {"cuillère à café", "cuillères à café"},
		Tablespoon: {"cuillère à soupe", "cuillères à soupe"},
		Cup:        {"tasse", "tasses"},
	},
	RegionGerman: {
		Teaspoon:   {"TL", "TL"},
		Tablespoon: {"EL", "EL"},
		Cup:        {"Tasse", "Tassen"},
	},
}

// fold 去除變音符號、轉小寫、移除句點並壓縮空白
func fold(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, raw)
	if err != nil {
		s = raw
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, "'", " ")
	s = strings.ReplaceAll(s, "’", " ")
	return strings.Join(strings.Fields(s), " ")
}

func lookup(raw string) (synonym, bool) {
	key := fold(raw)
	if key == "" {
		return synonym{}, false
	}
	s, ok := synonyms[key]
	return s, ok
}

// Normalize 將任意單位字串正規化為標準單位；無法辨識時回傳 false
func Normalize(raw string) (Unit, bool) {
	s, ok := lookup(raw)
	if !ok {
		return "", false
	}
	return s.unit, true
}

// RegionOf 依單位字串的字彙判斷偏好的語系
func RegionOf(raw string) Region {
	s, ok := lookup(raw)
	if !ok {
		return RegionNone
	}
	return s.region
}

// Label 依語系與數值回傳單位顯示名稱
func Label(u Unit, region Region, value float64) string {
	labels, ok := regionalLabels[region][u]
	if !ok {
		labels, ok = regionalLabels[RegionNone][u]
		if !ok {
			return string(u)
		}
	}
	if value > 1 {
		return labels.other
	}
	return labels.one
}

// SameUnit 判斷兩個單位字串是否指向同一單位（不分大小寫）
func SameUnit(a, b string) bool {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return true
	}
	ua, okA := Normalize(a)
	ub, okB := Normalize(b)
	return okA && okB && ua == ub
}
