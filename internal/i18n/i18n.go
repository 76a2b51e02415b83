// Package i18n holds the kiosk's English and Portuguese labels.
package i18n

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Language is a two-letter language code.
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt"
)

// Default is used when no language or an unknown one is requested.
const Default = English

// Key names a translatable label.
type Key string

const (
	AppTitle         Key = "appTitle"
	MenuTitle        Key = "menuTitle"
	CartTitle        Key = "cartTitle"
	OrdersTitle      Key = "ordersTitle"
	ActivityTitle    Key = "activityTitle"
	EmptyCart        Key = "emptyCart"
	EmptyCartWarning Key = "emptyCartWarning"
	NoActiveOrders   Key = "noActiveOrders"
	Total            Key = "total"
	Order            Key = "order"
	Checkout         Key = "checkout"
	UpdateOrder      Key = "updateOrder"
	AddedToCart      Key = "addedToCart"
	OrderCreated     Key = "orderCreated"
	OrderUpdated     Key = "orderUpdated"
	ItemsAdded       Key = "itemsAdded"
	EditingOrder     Key = "editingOrder"
	EditExpired      Key = "editExpired"
	EditNotAllowed   Key = "editNotAllowed"
	OrderNotFound    Key = "orderNotFound"
	OrderReady       Key = "orderReady"
	OrderPickedUp    Key = "orderPickedUp"
	ReadySoon        Key = "readySoon"
	StatusPending    Key = "statusPending"
	StatusPreparing  Key = "statusPreparing"
	StatusReady      Key = "statusReady"
	StatusPickedUp   Key = "statusPickedUp"
	Unavailable      Key = "unavailable"
	SaveFailed       Key = "saveFailed"
	LanguageName     Key = "languageName"
	ShowingPickedUp  Key = "showingPickedUp"
	HidingPickedUp   Key = "hidingPickedUp"
	NoActivity       Key = "noActivity"
	CategoryDrinks   Key = "categoryDrinks"
	CategorySnacks   Key = "categorySnacks"
	CategoryMixed    Key = "categoryMixed"
	CartCleared      Key = "cartCleared"
	ConfirmClear     Key = "confirmClear"
	Items            Key = "items"
	EditClosed       Key = "editClosed"
	FavoritesTitle   Key = "favoritesTitle"
	FavoriteAdded    Key = "favoriteAdded"
	FavoriteRemoved  Key = "favoriteRemoved"
	NoFavorites      Key = "noFavorites"
)

var tables = map[Language]map[Key]string{
	English: {
		AppTitle:         "Darsamo Bites",
		MenuTitle:        "Menu",
		CartTitle:        "Your order",
		OrdersTitle:      "Active orders",
		ActivityTitle:    "Activity",
		EmptyCart:        "Your cart is empty",
		EmptyCartWarning: "Add something to your cart first",
		NoActiveOrders:   "No active orders",
		Total:            "Total:",
		Order:            "Order",
		Checkout:         "Checkout",
		UpdateOrder:      "Update order",
		AddedToCart:      "added to cart",
		OrderCreated:     "Order #{id} placed",
		OrderUpdated:     "Order #{id} updated",
		ItemsAdded:       "Items added to order #{id}",
		EditingOrder:     "Editing order #{id}",
		EditExpired:      "Orders can only be edited within 3 minutes",
		EditNotAllowed:   "This order can no longer be edited",
		OrderNotFound:    "Order not found",
		OrderReady:       "Order #{id} is ready!",
		OrderPickedUp:    "Order #{id} picked up",
		ReadySoon:        "Ready soon",
		StatusPending:    "Pending",
		StatusPreparing:  "Preparing",
		StatusReady:      "Ready",
		StatusPickedUp:   "Picked up",
		Unavailable:      "Unavailable",
		SaveFailed:       "Could not save your order",
		LanguageName:     "English",
		ShowingPickedUp:  "Showing picked-up orders",
		HidingPickedUp:   "Hiding picked-up orders",
		NoActivity:       "No activity yet",
		CategoryDrinks:   "Drinks",
		CategorySnacks:   "Snacks",
		CategoryMixed:    "Mixed",
		CartCleared:      "Cart cleared",
		ConfirmClear:     "Clear the cart? (y/n)",
		Items:            "items",
		EditClosed:       "Order #{id} is ready, your changes were not applied",
		FavoritesTitle:   "Favorites",
		FavoriteAdded:    "added to favorites",
		FavoriteRemoved:  "removed from favorites",
		NoFavorites:      "No favorites yet. Press * on a menu item",
	},
	Portuguese: {
		AppTitle:         "Darsamo Bites",
		MenuTitle:        "Menu",
		CartTitle:        "O seu pedido",
		OrdersTitle:      "Pedidos ativos",
		ActivityTitle:    "Atividade",
		EmptyCart:        "O carrinho está vazio",
		EmptyCartWarning: "Adicione algo ao carrinho primeiro",
		NoActiveOrders:   "Nenhum pedido ativo",
		Total:            "Total:",
		Order:            "Pedido",
		Checkout:         "Finalizar",
		UpdateOrder:      "Atualizar pedido",
		AddedToCart:      "adicionado ao carrinho",
		OrderCreated:     "Pedido #{id} feito",
		OrderUpdated:     "Pedido #{id} atualizado",
		ItemsAdded:       "Itens adicionados ao pedido #{id}",
		EditingOrder:     "A editar o pedido #{id}",
		EditExpired:      "Os pedidos só podem ser editados nos primeiros 3 minutos",
		EditNotAllowed:   "Este pedido já não pode ser editado",
		OrderNotFound:    "Pedido não encontrado",
		OrderReady:       "Pedido #{id} está pronto!",
		OrderPickedUp:    "Pedido #{id} levantado",
		ReadySoon:        "Quase pronto",
		StatusPending:    "Pendente",
		StatusPreparing:  "Em preparação",
		StatusReady:      "Pronto",
		StatusPickedUp:   "Levantado",
		Unavailable:      "Indisponível",
		SaveFailed:       "Não foi possível guardar o pedido",
		LanguageName:     "Português",
		ShowingPickedUp:  "A mostrar pedidos levantados",
		HidingPickedUp:   "A esconder pedidos levantados",
		NoActivity:       "Sem atividade",
		CategoryDrinks:   "Bebidas",
		CategorySnacks:   "Lanches",
		CategoryMixed:    "Misto",
		CartCleared:      "Carrinho limpo",
		ConfirmClear:     "Limpar o carrinho? (s/n)",
		Items:            "itens",
		EditClosed:       "O pedido #{id} está pronto, as alterações não foram aplicadas",
		FavoritesTitle:   "Favoritos",
		FavoriteAdded:    "adicionado aos favoritos",
		FavoriteRemoved:  "removido dos favoritos",
		NoFavorites:      "Ainda sem favoritos. Prima * num item do menu",
	},
}

var order = []Language{English, Portuguese}

// Parse normalises a language code, reporting whether it is supported.
func Parse(code string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := tables[lang]; ok {
		return lang, true
	}
	return Default, false
}

// Languages returns the supported languages in display order.
func Languages() []Language {
	return append([]Language(nil), order...)
}

// Next returns the language after lang in display order.
func Next(lang Language) Language {
	for i, l := range order {
		if l == lang {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

// T looks up key in lang, falling back to English and then to the key itself.
func T(lang Language, key Key) string {
	if s, ok := tables[lang][key]; ok {
		return s
	}
	if s, ok := tables[Default][key]; ok {
		return s
	}
	return string(key)
}

// WithID looks up key and substitutes the {id} placeholder.
func WithID(lang Language, key Key, id int) string {
	return strings.ReplaceAll(T(lang, key), "{id}", strconv.Itoa(id))
}

// StatusKey maps an order status value to its label key.
func StatusKey(status string) Key {
	switch status {
	case "pending":
		return StatusPending
	case "preparing":
		return StatusPreparing
	case "ready":
		return StatusReady
	case "pickedUp":
		return StatusPickedUp
	default:
		return Key(status)
	}
}

// CategoryKey maps an order category to its label key.
func CategoryKey(category string) Key {
	switch category {
	case "drinks":
		return CategoryDrinks
	case "snacks":
		return CategorySnacks
	case "mixed":
		return CategoryMixed
	default:
		return Key(category)
	}
}

// FormatTimeLeft renders a remaining duration as "4m 5s", or the
// "ready soon" label once nothing is left.
func FormatTimeLeft(lang Language, left time.Duration) string {
	if left <= 0 {
		return T(lang, ReadySoon)
	}
	secs := int64(left / time.Second)
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
