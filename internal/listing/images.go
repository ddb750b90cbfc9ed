package listing

import (
	"errors"
	"strings"
)

// ErrNoImages возвращается, если в списке изображений нет ни одной ссылки.
var ErrNoImages = errors.New("не указано ни одной ссылки на изображение")

// SplitLinks разбивает список ссылок, разделенных пробельными символами.
func SplitLinks(raw string) []string {
	return strings.Fields(raw)
}

// JoinLinks склеивает ссылки через пробел, как они показываются в форме редактирования.
func JoinLinks(links []string) string {
	return strings.Join(links, " ")
}

// Reconciliation - результат сверки присланного списка изображений с сохраненным.
type Reconciliation struct {
	// Primary - новое значение основного изображения объекта.
	Primary string
	// New - ссылки, для которых нужно создать записи Image.
	New []string
}

// ReconcileImages сверяет присланный список ссылок с уже сохраненными.
// Основным изображением всегда становится первая присланная ссылка.
// Ссылка считается новой, если она не встречается как подстрока в склеенной
// через пробел строке существующих ссылок. Существующие записи не удаляются.
func ReconcileImages(submitted string, existing []string) (Reconciliation, error) {
	links := SplitLinks(submitted)
	if len(links) == 0 {
		return Reconciliation{}, ErrNoImages
	}

	joined := JoinLinks(existing)
	res := Reconciliation{Primary: links[0]}
	for _, link := range links {
		if !strings.Contains(joined, link) {
			res.New = append(res.New, link)
		}
	}
	return res, nil
}
