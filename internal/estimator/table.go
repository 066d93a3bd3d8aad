package estimator

// DefaultTable is the production keyword-to-price table. Values are
// rough retail figures in cents; most specific phrases come first so
// "macbook pro 16" outranks "macbook pro". The table is configuration,
// not code: tests seed their own small fixtures instead.
var DefaultTable = Table{
	Entries: []Entry{
		// Laptops
		{"macbook pro 16", 200000},
		{"macbook pro m3", 200000},
		{"macbook pro m2", 200000},
		{"macbook pro", 120000},
		{"macbook air", 90000},
		{"thinkpad x1", 120000},
		{"thinkpad", 60000},
		{"dell latitude", 50000},
		{"dell xps", 90000},
		{"elitebook", 55000},
		{"chromebook", 20000},
		{"gaming laptop", 100000},
		{"laptop", 40000},

		// Phones
		{"iphone 15 pro", 100000},
		{"iphone 15", 80000},
		{"iphone 14 pro", 80000},
		{"iphone 14", 60000},
		{"iphone 13", 50000},
		{"iphone 12", 40000},
		{"iphone", 35000},
		{"galaxy s24", 70000},
		{"galaxy s23", 70000},
		{"galaxy s22", 50000},
		{"galaxy s21", 50000},
		{"galaxy", 30000},

		// Tablets
		{"ipad pro", 80000},
		{"ipad air", 50000},
		{"ipad", 35000},
		{"surface pro", 80000},

		// Game consoles
		{"playstation 5", 45000},
		{"ps5", 45000},
		{"playstation", 45000},
		{"xbox series x", 45000},
		{"xbox", 30000},
		{"nintendo switch oled", 35000},
		{"nintendo switch", 25000},
	},
	Accessories: []string{
		"cable", "lock", "bag", "backpack", "charger", "adapter",
		"case", "sleeve", "stand", "mount", "holder", "strap",
		"cleaning", "cover", "skin", "protector", "lot of",
	},
	Anchors: []string{
		"macbook", "thinkpad", "iphone", "ipad", "galaxy",
	},
}
