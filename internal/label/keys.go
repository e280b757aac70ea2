package label

// Key is a platform-neutral identifier for one physical keyboard key. Both the
// Windows low-level-hook tap and the Linux evdev tap resolve raw codes down to
// this enum before the label table is consulted.
type Key int

const (
	KeyNone Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyNumber0
	KeyNumber1
	KeyNumber2
	KeyNumber3
	KeyNumber4
	KeyNumber5
	KeyNumber6
	KeyNumber7
	KeyNumber8
	KeyNumber9
	KeyLeftAlt
	KeyRightAlt
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyBackSpace
	KeyTab
	KeyEnter
	KeyEscape
	KeySpace
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyArrowLeft
	KeyArrowUp
	KeyArrowRight
	KeyArrowDown
	KeyPrint
	KeyPrintScreen
	KeyInsert
	KeyDelete
	KeyLeftWindows
	KeyRightWindows
	KeyComma
	KeyPeriod
	KeySlash
	KeySemiColon
	KeyApostrophe
	KeyLeftBrace
	KeyBackwardSlash
	KeyRightBrace
	KeyGrave
	KeyAdd
	KeySubtract
	KeyDecimal
	KeyDivide
	KeyMultiply
	KeySeparator
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24
	KeyNumLock
	KeyScrollLock
	KeyCapsLock
	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
)

// keyLabels is the fixed normalized-key to label table. Multi-label entries
// preserve legacy numeric aliases alongside the human-readable name; the
// first entry in each slice is the primary label used for matching.
var keyLabels = map[Key][]string{
	KeyA: {"A"}, KeyB: {"B"}, KeyC: {"C"}, KeyD: {"D"}, KeyE: {"E"},
	KeyF: {"F"}, KeyG: {"G"}, KeyH: {"H"}, KeyI: {"I"}, KeyJ: {"J"},
	KeyK: {"K"}, KeyL: {"L"}, KeyM: {"M"}, KeyN: {"N"}, KeyO: {"O"},
	KeyP: {"P"}, KeyQ: {"Q"}, KeyR: {"R"}, KeyS: {"S"}, KeyT: {"T"},
	KeyU: {"U"}, KeyV: {"V"}, KeyW: {"W"}, KeyX: {"X"}, KeyY: {"Y"}, KeyZ: {"Z"},
	KeyNumber0: {"0"}, KeyNumber1: {"1"}, KeyNumber2: {"2"}, KeyNumber3: {"3"},
	KeyNumber4: {"4"}, KeyNumber5: {"5"}, KeyNumber6: {"6"}, KeyNumber7: {"7"},
	KeyNumber8: {"8"}, KeyNumber9: {"9"},
	KeyLeftAlt:       {"LEFT ALT"},
	KeyRightAlt:      {"RIGHT ALT"},
	KeyLeftShift:     {"LEFT SHIFT"},
	KeyRightShift:    {"RIGHT SHIFT"},
	KeyLeftControl:   {"LEFT CTRL"},
	KeyRightControl:  {"25", "RIGHT CTRL"},
	KeyBackSpace:     {"BACKSPACE"},
	KeyTab:           {"TAB"},
	KeyEnter:         {"RETURN", "NUMPAD RETURN"},
	KeyEscape:        {"ESCAPE"},
	KeySpace:         {"SPACE"},
	KeyPageUp:        {"PAGE UP"},
	KeyPageDown:      {"PAGE DOWN"},
	KeyHome:          {"HOME"},
	KeyArrowLeft:     {"LEFT ARROW"},
	KeyArrowUp:       {"UP ARROW"},
	KeyArrowRight:    {"RIGHT ARROW"},
	KeyArrowDown:     {"DOWN ARROW"},
	KeyPrint:         {"PRINT"},
	KeyPrintScreen:   {"PRINT SCREEN"},
	KeyInsert:        {"INS"},
	KeyDelete:        {"DELETE"},
	KeyLeftWindows:   {"91", "LEFT WINDOWS"},
	KeyRightWindows:  {"92", "RIGHT WINDOWS"},
	KeyComma:         {"COMMA"},
	KeyPeriod:        {"DOT", "PERIOD"},
	KeySlash:         {"FORWARD SLASH", "/"},
	KeySemiColon:     {"SEMICOLON"},
	KeyApostrophe:    {"QUOTE"},
	KeyLeftBrace:     {"SQUARE BRACKET OPEN"},
	KeyBackwardSlash: {"BACKSLASH"},
	KeyRightBrace:    {"SQUARE BRACKET CLOSE"},
	KeyGrave:         {"SECTION", "GRAVE"},
	KeyAdd:           {"NUMPAD PLUS", "+"},
	KeySubtract:      {"NUMPAD MINUS", "-"},
	KeyDecimal:       {"NUMPAD DELETE", "DECIMAL"},
	KeyDivide:        {"NUMPAD DIVIDE", "/"},
	KeyMultiply:      {"NUMPAD MULTIPLY", "*"},
	KeySeparator:     {"NUMPAD SEPARATOR"},
	KeyF1:            {"F1"}, KeyF2: {"F2"}, KeyF3: {"F3"}, KeyF4: {"F4"},
	KeyF5: {"F5"}, KeyF6: {"F6"}, KeyF7: {"F7"}, KeyF8: {"F8"},
	KeyF9: {"F9"}, KeyF10: {"F10"}, KeyF11: {"F11"}, KeyF12: {"F12"},
	KeyF13: {"F13"}, KeyF14: {"F14"}, KeyF15: {"F15"}, KeyF16: {"F16"},
	KeyF17: {"F17"}, KeyF18: {"F18"}, KeyF19: {"F19"}, KeyF20: {"F20"},
	KeyF21: {"F21"}, KeyF22: {"F22"}, KeyF23: {"F23"}, KeyF24: {"F24"},
	KeyNumLock:    {"NUM LOCK"},
	KeyScrollLock: {"SCROLL LOCK"},
	KeyCapsLock:   {"CAPS LOCK"},
	KeyNumpad0:    {"NUMPAD 0"}, KeyNumpad1: {"NUMPAD 1"}, KeyNumpad2: {"NUMPAD 2"},
	KeyNumpad3: {"NUMPAD 3"}, KeyNumpad4: {"NUMPAD 4"}, KeyNumpad5: {"NUMPAD 5"},
	KeyNumpad6: {"NUMPAD 6"}, KeyNumpad7: {"NUMPAD 7"}, KeyNumpad8: {"NUMPAD 8"},
	KeyNumpad9: {"NUMPAD 9"},
}

// numpadScancodes maps the fixed scancode set from the spec's numpad
// disambiguation rule to the literal label emitted for it.
var numpadScancodes = map[uint32]string{
	82: "NUMPAD 0", 79: "NUMPAD 1", 80: "NUMPAD 2", 81: "NUMPAD 3",
	75: "NUMPAD 4", 76: "NUMPAD 5", 77: "NUMPAD 6",
	71: "NUMPAD 7", 72: "NUMPAD 8", 73: "NUMPAD 9",
	28: "NUMPAD RETURN", 83: "NUMPAD DELETE",
}

// unknownVKLabels covers raw virtual-key codes with no normalized Key mapping.
var unknownVKLabels = map[uint32][]string{
	187: {"EQUALS", "="},
	189: {"MINUS", "-"},
	93:  {"CONTEXT MENU", "APPS"},
	19:  {"PAUSE"},
	255: {"PAUSE"},
	35:  {"END"},
}
