// Package ui provides the terminal kiosk for Darsamo Bites.
//
// The interface is a Bubble Tea program with four views cycled with Tab:
//
//   - Menu: catalog sections with prices; enter adds the selected item
//   - Cart: quantities, line removal, checkout (or update of the order
//     being edited) and clearing behind a confirmation
//   - Orders: active orders with status badges and remaining time; begin
//     an edit, merge the cart into an order, mark it picked up
//   - Activity: the tail of the structured log file
//
// The model never touches ledger containers. Actions go through the Kiosk
// interface and the screen is drawn from state.Snapshot copies fetched on
// every tick. Ready notices from the store become toasts, one per notice.
//
// Global keys: L toggles the language, T cycles the theme (saved to the
// preferences file), h or ? shows help, q or ctrl+c quits.
package ui
