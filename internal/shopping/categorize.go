// Package shopping holds the shopping-list category tags and the keyword
// categoriser used when an item is added without a category.
package shopping

import "strings"

const (
	CategoryDairy        = "Dairy"
	CategoryVegetables   = "Vegetables"
	CategoryFruit        = "Fruit"
	CategoryMeatFish     = "Meat & Fish"
	CategoryBakery       = "Bakery"
	CategoryPantry       = "Pantry"
	CategoryCleaning     = "Cleaning"
	CategoryPersonalCare = "Personal Care"
	CategoryHome         = "Home"
	CategoryOther        = "Other"
)

// Categories lists the tags in display order.
var Categories = []string{
	CategoryDairy,
	CategoryVegetables,
	CategoryFruit,
	CategoryMeatFish,
	CategoryBakery,
	CategoryPantry,
	CategoryCleaning,
	CategoryPersonalCare,
	CategoryHome,
	CategoryOther,
}

// ValidCategory reports whether c is one of the known tags.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

// Categorize returns the category for an item name. It tries a
// case-insensitive exact match, then substring matches in order, and falls
// back to Other.
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return CategoryOther
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return CategoryOther
}

var exactMatch = map[string]string{
	"milk":      CategoryDairy,
	"cheese":    CategoryDairy,
	"butter":    CategoryDairy,
	"yogurt":    CategoryDairy,
	"eggs":      CategoryDairy,
	"cream":     CategoryDairy,
	"חלב":       CategoryDairy,
	"גבינה":     CategoryDairy,
	"ביצים":     CategoryDairy,
	"tomato":    CategoryVegetables,
	"tomatoes":  CategoryVegetables,
	"cucumber":  CategoryVegetables,
	"onion":     CategoryVegetables,
	"onions":    CategoryVegetables,
	"potato":    CategoryVegetables,
	"potatoes":  CategoryVegetables,
	"carrots":   CategoryVegetables,
	"lettuce":   CategoryVegetables,
	"garlic":    CategoryVegetables,
	"עגבניות":   CategoryVegetables,
	"מלפפון":    CategoryVegetables,
	"בצל":       CategoryVegetables,
	"apple":     CategoryFruit,
	"apples":    CategoryFruit,
	"banana":    CategoryFruit,
	"bananas":   CategoryFruit,
	"grapes":    CategoryFruit,
	"lemon":     CategoryFruit,
	"oranges":   CategoryFruit,
	"תפוחים":    CategoryFruit,
	"בננות":     CategoryFruit,
	"chicken":   CategoryMeatFish,
	"beef":      CategoryMeatFish,
	"salmon":    CategoryMeatFish,
	"tuna":      CategoryMeatFish,
	"עוף":       CategoryMeatFish,
	"bread":     CategoryBakery,
	"pita":      CategoryBakery,
	"bagels":    CategoryBakery,
	"לחם":       CategoryBakery,
	"פיתות":     CategoryBakery,
	"rice":      CategoryPantry,
	"pasta":     CategoryPantry,
	"flour":     CategoryPantry,
	"sugar":     CategoryPantry,
	"oil":       CategoryPantry,
	"אורז":      CategoryPantry,
	"bleach":    CategoryCleaning,
	"sponges":   CategoryCleaning,
	"shampoo":   CategoryPersonalCare,
	"soap":      CategoryPersonalCare,
	"razors":    CategoryPersonalCare,
	"candles":   CategoryHome,
	"batteries": CategoryHome,
}

type substringEntry struct {
	keyword  string
	category string
}

// Ordered longer and more specific first.
var substringMatches = []substringEntry{
	{"dish soap", CategoryCleaning},
	{"paper towel", CategoryHome},
	{"toilet paper", CategoryHome},
	{"trash bag", CategoryHome},
	{"light bulb", CategoryHome},
	{"body wash", CategoryPersonalCare},
	{"toothpaste", CategoryPersonalCare},
	{"toothbrush", CategoryPersonalCare},
	{"deodorant", CategoryPersonalCare},
	{"conditioner", CategoryPersonalCare},
	{"detergent", CategoryCleaning},
	{"laundry", CategoryCleaning},
	{"cleaner", CategoryCleaning},
	{"ניקוי", CategoryCleaning},
	{"cottage", CategoryDairy},
	{"cheese", CategoryDairy},
	{"yogurt", CategoryDairy},
	{"milk", CategoryDairy},
	{"chicken", CategoryMeatFish},
	{"steak", CategoryMeatFish},
	{"fish", CategoryMeatFish},
	{"בשר", CategoryMeatFish},
	{"bread", CategoryBakery},
	{"roll", CategoryBakery},
	{"cake", CategoryBakery},
	{"berries", CategoryFruit},
	{"melon", CategoryFruit},
	{"pepper", CategoryVegetables},
	{"salad", CategoryVegetables},
	{"canned", CategoryPantry},
	{"sauce", CategoryPantry},
	{"spice", CategoryPantry},
	{"cereal", CategoryPantry},
	{"coffee", CategoryPantry},
	{"tea", CategoryPantry},
}
