package component

// IconType discriminates the icon variants.
type IconType string

const (
	IconSystem IconType = "system"
	IconURL    IconType = "url"
	IconAsset  IconType = "asset"
	IconEmoji  IconType = "emoji"
	IconText   IconType = "text"
)

// Icon references an image: a system symbol name, a remote URL, a bundled
// asset, an emoji, or a short text badge.
type Icon struct {
	Type  IconType `json:"type"`
	Name  string   `json:"name,omitempty"`
	URL   string   `json:"url,omitempty"`
	Emoji string   `json:"emoji,omitempty"`
	Text  string   `json:"text,omitempty"`
	Color string   `json:"color,omitempty"`
}

// SystemIcon returns an icon referring to a platform symbol name.
func SystemIcon(name string) *Icon { return &Icon{Type: IconSystem, Name: name} }

// EmojiIcon returns an emoji icon.
func EmojiIcon(emoji string) *Icon { return &Icon{Type: IconEmoji, Emoji: emoji} }

// URLIcon returns an icon loaded from a remote image URL.
func URLIcon(url string) *Icon { return &Icon{Type: IconURL, URL: url} }

func (i *Icon) validate() error {
	if i == nil {
		return nil
	}
	switch i.Type {
	case IconSystem, IconAsset:
		if i.Name == "" {
			return &ValidationError{Component: "Icon", Field: "name", Reason: "required for " + string(i.Type) + " icons"}
		}
	case IconURL:
		if i.URL == "" {
			return &ValidationError{Component: "Icon", Field: "url", Reason: "required for url icons"}
		}
	case IconEmoji:
		if i.Emoji == "" {
			return &ValidationError{Component: "Icon", Field: "emoji", Reason: "required for emoji icons"}
		}
	case IconText:
		if i.Text == "" {
			return &ValidationError{Component: "Icon", Field: "text", Reason: "required for text icons"}
		}
	default:
		return &ValidationError{Component: "Icon", Field: "type", Reason: "unknown icon type " + string(i.Type)}
	}
	return nil
}

// AccessoryType discriminates the accessory variants.
type AccessoryType string

const (
	AccessoryText AccessoryType = "text"
	AccessoryIcon AccessoryType = "icon"
	AccessoryTag  AccessoryType = "tag"
	AccessoryDate AccessoryType = "date"
)

// DateFormat selects how a date accessory is displayed.
type DateFormat string

const (
	DateRelative DateFormat = "relative"
	DateAbsolute DateFormat = "absolute"
	DateTimeOnly DateFormat = "time"
)

// Accessory 显示在列表条目右侧：文本、图标、标签或日期。
// Accessory is displayed on the right side of a list item.
type Accessory struct {
	Type   AccessoryType `json:"type"`
	Text   string        `json:"text,omitempty"`
	Icon   *Icon         `json:"icon,omitempty"`
	Value  string        `json:"value,omitempty"`
	Color  string        `json:"color,omitempty"`
	Date   string        `json:"date,omitempty"`
	Format DateFormat    `json:"format,omitempty"`
}

// TextAccessory returns a plain text accessory.
func TextAccessory(text string) Accessory { return Accessory{Type: AccessoryText, Text: text} }

// TagAccessory returns a colored tag accessory.
func TagAccessory(value, color string) Accessory {
	return Accessory{Type: AccessoryTag, Value: value, Color: color}
}

func (a Accessory) validate() error {
	switch a.Type {
	case AccessoryText:
		if a.Text == "" {
			return &ValidationError{Component: "Accessory", Field: "text", Reason: "required for text accessories"}
		}
	case AccessoryIcon:
		if a.Icon == nil {
			return &ValidationError{Component: "Accessory", Field: "icon", Reason: "required for icon accessories"}
		}
		return a.Icon.validate()
	case AccessoryTag:
		if a.Value == "" {
			return &ValidationError{Component: "Accessory", Field: "value", Reason: "required for tag accessories"}
		}
	case AccessoryDate:
		if a.Date == "" {
			return &ValidationError{Component: "Accessory", Field: "date", Reason: "required for date accessories"}
		}
	default:
		return &ValidationError{Component: "Accessory", Field: "type", Reason: "unknown accessory type " + string(a.Type)}
	}
	return nil
}
