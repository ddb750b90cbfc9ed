// Package listing содержит правила подготовки полей объекта недвижимости
// перед сохранением: нормализацию строки тегов и сверку списка изображений.
package listing

import "strings"

const (
	// TagSlots - количество отображаемых ячеек тегов в карточке объекта.
	TagSlots = 29
	// TagWidth - длина хранимой строки тегов в символах.
	TagWidth = TagSlots * 3
	// Ellipsis добавляется к обрезанной строке тегов.
	Ellipsis = "..."
)

// NormalizeTags приводит строку тегов к длине ровно TagWidth символов.
// Строка длиной TagWidth и больше обрезается до TagWidth-3 символов и дополняется многоточием,
// более короткая дополняется пробелами справа. Длина считается в рунах.
func NormalizeTags(tags string) string {
	runes := []rune(tags)
	if len(runes) >= TagWidth {
		return string(runes[:TagWidth-len(Ellipsis)]) + Ellipsis
	}
	return tags + strings.Repeat(" ", TagWidth-len(runes))
}

// DisplayTags убирает правое дополнение пробелами, добавленное NormalizeTags.
// Используется для предзаполнения формы редактирования.
func DisplayTags(stored string) string {
	return strings.TrimRight(stored, " ")
}
