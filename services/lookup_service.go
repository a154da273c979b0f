package services

import (
	"errors"
	"strings"

	"inventar-backend/models"

	"gorm.io/gorm"
)

// ErrMalformedOrdererRef возвращается, когда поле orderer не является ни
// числовым ID, ни непустым именем
var ErrMalformedOrdererRef = errors.New("заказчик должен быть задан числовым ID или именем")

// OrdererRef - помеченный вариант ссылки на заказчика: либо ID
// существующего пользователя, либо имя для поиска-или-создания
type OrdererRef struct {
	ByID   *uint
	ByName *string
}

// ParseOrdererRef разбирает значение из JSON-патча. Числа трактуются как
// ID, строки - как имя; все остальное - ошибка формата.
func ParseOrdererRef(value interface{}) (OrdererRef, error) {
	switch v := value.(type) {
	case float64:
		id := uint(v)
		return OrdererRef{ByID: &id}, nil
	case string:
		name := strings.TrimSpace(v)
		if name == "" {
			return OrdererRef{}, ErrMalformedOrdererRef
		}
		return OrdererRef{ByName: &name}, nil
	default:
		return OrdererRef{}, ErrMalformedOrdererRef
	}
}

// ResolveOrderer разрешает ссылку на заказчика. ID обязан существовать;
// имя ищется точным совпадением, при отсутствии пользователь создается.
func ResolveOrderer(tx *gorm.DB, ref OrdererRef) (*models.User, error) {
	if ref.ByID != nil {
		var user models.User
		if err := tx.First(&user, *ref.ByID).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	if ref.ByName != nil {
		var user models.User
		err := tx.Where("name = ?", *ref.ByName).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user = models.User{
			Name:     *ref.ByName,
			Email:    placeholderEmail(*ref.ByName),
			IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	return nil, ErrMalformedOrdererRef
}

// placeholderEmail генерирует технический email для пользователей,
// заведенных по имени из патча (уникальный индекс по email не терпит пустых
// дублей)
func placeholderEmail(name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return slug + "@inventar.local"
}

// ResolveCompany находит фирму по имени или создает новую
func ResolveCompany(tx *gorm.DB, name string) (*models.Company, error) {
	var company models.Company
	err := tx.Where("name = ?", name).First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company = models.Company{Name: name}
	if err := tx.Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// ResolveCostCenter находит кост-центр по метке или создает новый
func ResolveCostCenter(tx *gorm.DB, label string) (*models.CostCenter, error) {
	var costCenter models.CostCenter
	err := tx.Where("label = ?", label).First(&costCenter).Error
	if err == nil {
		return &costCenter, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	costCenter = models.CostCenter{Label: label}
	if err := tx.Create(&costCenter).Error; err != nil {
		return nil, err
	}
	return &costCenter, nil
}
