package services

import (
	"errors"
	"strings"
	"time"

	"inventar-backend/models"

	"gorm.io/gorm"
)

// ErrInvalidSortField возвращается, когда запрошена сортировка по полю,
// которого нет в allow-list. Проверка выполняется до обращения к базе.
var ErrInvalidSortField = errors.New("недопустимое поле сортировки")

// ItemFilter содержит необязательные критерии одного запроса листинга.
// Объект живет в пределах запроса и не сохраняется.
type ItemFilter struct {
	TagIDs        []uint
	MinID         *uint
	MaxID         *uint
	MinPrice      *float64
	MaxPrice      *float64
	Deinventoried *bool
	Orderer       *string
	Company       *string
	Location      *string
	CostCenter    *string
	SerialNumber  *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SearchText    string
	OrderBy       string
	Direction     string
}

// scope - композируемый фрагмент запроса. Отсутствующий критерий дает
// identity-фрагмент, так что пустой фильтр эквивалентен полному скану.
type scope func(*gorm.DB) *gorm.DB

func noScope(query *gorm.DB) *gorm.DB { return query }

// directSortColumns - прямые поля Item, сортируемые нативным ORDER BY
var directSortColumns = map[string]string{
	"id":           "items.id",
	"description":  "items.description",
	"price":        "items.price",
	"createdAt":    "items.created_at",
	"serialNumber": "items.serial_number",
	"location":     "items.location",
}

// relationSortJoins - поля связанных сущностей: сортировка требует JOIN,
// колонка сравнения фиксирована для каждой связи
var relationSortJoins = map[string]struct {
	Join   string
	Column string
}{
	"company.name": {
		Join:   "LEFT JOIN companies ON companies.id = items.company_id",
		Column: "companies.name",
	},
	"user.name": {
		Join:   "LEFT JOIN users ON users.id = items.orderer_id",
		Column: "users.name",
	},
}

// byIDRange строит фрагмент по диапазону инвентарных номеров (включительно)
func byIDRange(min, max *uint) scope {
	if min == nil && max == nil {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		if min != nil {
			query = query.Where("items.id >= ?", *min)
		}
		if max != nil {
			query = query.Where("items.id <= ?", *max)
		}
		return query
	}
}

// byPriceRange строит фрагмент по диапазону цен (включительно)
func byPriceRange(min, max *float64) scope {
	if min == nil && max == nil {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		if min != nil {
			query = query.Where("items.price >= ?", *min)
		}
		if max != nil {
			query = query.Where("items.price <= ?", *max)
		}
		return query
	}
}

// byCreatedRange строит фрагмент по диапазону дат создания (включительно)
func byCreatedRange(after, before *time.Time) scope {
	if after == nil && before == nil {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		if after != nil {
			query = query.Where("items.created_at >= ?", *after)
		}
		if before != nil {
			query = query.Where("items.created_at <= ?", *before)
		}
		return query
	}
}

// byColumnEquals строит фрагмент точного равенства по собственной колонке
func byColumnEquals(column string, value *string) scope {
	if value == nil || *value == "" {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		return query.Where(column+" = ?", *value)
	}
}

// byDeinventoried строит фрагмент по флагу списания
func byDeinventoried(flag *bool) scope {
	if flag == nil {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		return query.Where("items.deinventoried = ?", *flag)
	}
}

// byCompanyName строит фрагмент равенства по имени фирмы. Сравнение идет
// с отображаемым полем связанной сущности, а не с ее ID.
func byCompanyName(db *gorm.DB, name *string) scope {
	if name == nil || *name == "" {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Company{}).Select("id").Where("name = ?", *name)
		return query.Where("items.company_id IN (?)", sub)
	}
}

// byCostCenterLabel строит фрагмент равенства по метке кост-центра
func byCostCenterLabel(db *gorm.DB, label *string) scope {
	if label == nil || *label == "" {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.CostCenter{}).Select("id").Where("label = ?", *label)
		return query.Where("items.cost_center_id IN (?)", sub)
	}
}

// byOrdererName строит фрагмент равенства по имени заказчика
func byOrdererName(db *gorm.DB, name *string) scope {
	if name == nil || *name == "" {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.User{}).Select("id").Where("name = ?", *name)
		return query.Where("items.orderer_id IN (?)", sub)
	}
}

// byTags строит фрагмент принадлежности меткам: достаточно хотя бы одной
// метки из набора (OR внутри набора, AND с остальными критериями)
func byTags(db *gorm.DB, tagIDs []uint) scope {
	if len(tagIDs) == 0 {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("item_tags").Select("item_id").Where("tag_id IN ?", tagIDs)
		return query.Where("items.id IN (?)", sub)
	}
}

// bySearchText строит фрагмент подстрочного поиска по заранее вычисленной
// поисковой строке (без регистра)
func bySearchText(text string) scope {
	if text == "" {
		return noScope
	}
	return func(query *gorm.DB) *gorm.DB {
		return query.Where("items.search_text LIKE ?", "%"+strings.ToLower(text)+"%")
	}
}

// resolveSort переводит запрошенное поле и направление в фрагмент
// сортировки. Поля вне allow-list отклоняются с ErrInvalidSortField.
func resolveSort(orderBy, direction string) (scope, error) {
	if orderBy == "" {
		orderBy = "id"
	}
	dir := "ASC"
	if strings.ToLower(direction) == "desc" {
		dir = "DESC"
	}

	if column, ok := directSortColumns[orderBy]; ok {
		return func(query *gorm.DB) *gorm.DB {
			query = query.Order(column + " " + dir)
			if orderBy != "id" {
				// Вторичный порядок по id держит пагинацию стабильной
				query = query.Order("items.id ASC")
			}
			return query
		}, nil
	}

	if rel, ok := relationSortJoins[orderBy]; ok {
		return func(query *gorm.DB) *gorm.DB {
			// items.* - чтобы колонки из JOIN не перекрывали поля Item
			return query.Select("items.*").
				Joins(rel.Join).
				Order(rel.Column + " " + dir).
				Order("items.id ASC")
		}, nil
	}

	return nil, ErrInvalidSortField
}

// CompileItemQuery складывает все активные критерии фильтра через AND и
// прикрепляет сортировку. Без побочных эффектов: один и тот же фильтр
// можно компилировать повторно для следующих страниц.
func CompileItemQuery(db *gorm.DB, filter ItemFilter) (*gorm.DB, error) {
	orderScope, err := resolveSort(filter.OrderBy, filter.Direction)
	if err != nil {
		return nil, err
	}

	scopes := []scope{
		byTags(db, filter.TagIDs),
		byIDRange(filter.MinID, filter.MaxID),
		byPriceRange(filter.MinPrice, filter.MaxPrice),
		byCreatedRange(filter.CreatedAfter, filter.CreatedBefore),
		byDeinventoried(filter.Deinventoried),
		byColumnEquals("items.location", filter.Location),
		byColumnEquals("items.serial_number", filter.SerialNumber),
		byCompanyName(db, filter.Company),
		byCostCenterLabel(db, filter.CostCenter),
		byOrdererName(db, filter.Orderer),
		bySearchText(filter.SearchText),
	}

	query := db.Model(&models.Item{})
	for _, sc := range scopes {
		query = sc(query)
	}

	return orderScope(query), nil
}

// FindItems выполняет скомпилированный запрос с пагинацией. Пустая
// страница - не ошибка; общее количество считается по тому же фильтру.
func FindItems(db *gorm.DB, filter ItemFilter, page, limit int) ([]models.Item, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	query, err := CompileItemQuery(db, filter)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	offset := (page - 1) * limit
	err = query.
		Preload("Company").
		Preload("CostCenter").
		Preload("Orderer").
		Preload("Tags").
		Preload("Extensions").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
