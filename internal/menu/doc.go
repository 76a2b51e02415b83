// Package menu holds the cafeteria catalog.
//
// The catalog is a TOML document embedded in the binary (menu.toml). Each
// section carries a category (drinks or snacks); the category of an item is
// the category of the section that lists it. Orders use this to decide
// whether they are drinks, snacks or mixed.
//
// Prices in the document are written in whole currency units and stored in
// minor units (cents) so totals never accumulate float error.
package menu
