package signal

// Category is an item class shared between report filing and device
// signaling. Each category maps to one indicator channel on the device;
// the set must match the device firmware.
type Category string

// The closed category set.
const (
	CategoryPhone      Category = "phone"
	CategoryWallet     Category = "wallet"
	CategoryUmbrella   Category = "umbrella"
	CategoryCalculator Category = "calculator"
	CategoryRandom     Category = "random"
)

// Categories is the ordered category set, as presented to kiosk UIs.
var Categories = []Category{
	CategoryPhone,
	CategoryWallet,
	CategoryUmbrella,
	CategoryCalculator,
	CategoryRandom,
}

// IsValidCategory returns true if the category is a known device channel.
// Every device-control action validates its category argument; report
// intake deliberately does not (free-text categories persist as-is).
func IsValidCategory(c Category) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// State is a binary indicator state.
type State string

// Indicator states, used verbatim as the device URL action segment.
const (
	StateOn  State = "on"
	StateOff State = "off"
)

// IsValidState returns true if the state is a valid device action.
func IsValidState(s State) bool {
	return s == StateOn || s == StateOff
}
