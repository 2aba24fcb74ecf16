package repository

import (
	"context"
	"errors"
	"time"

	"github.com/doshakada/ordering-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// orderRecord is the orders table row. Line items are kept as a JSON column;
// the kitchen never queries inside them. UpdatedAt is stamped by the service,
// never by gorm, so a no-op update leaves it alone.
type orderRecord struct {
	ID            string             `gorm:"primaryKey;type:varchar(36)"`
	Items         []models.OrderItem `gorm:"serializer:json;type:jsonb;not null"`
	Total         float64            `gorm:"not null"`
	PaymentMethod string             `gorm:"type:varchar(10);not null"`
	PaymentStatus string             `gorm:"type:varchar(20);not null;index"`
	PaymentLink   string             `gorm:"type:text"`
	CustomerName  string             `gorm:"type:varchar(255)"`
	CustomerPhone string             `gorm:"type:varchar(32)"`
	DeviceHash    string             `gorm:"type:varchar(128);index"`
	Status        string             `gorm:"type:varchar(20);not null;index"`
	CreatedAt     time.Time          `gorm:"not null;index"`
	UpdatedAt     time.Time          `gorm:"not null;autoUpdateTime:false"`
}

func (orderRecord) TableName() string {
	return "orders"
}

func toRecord(o *models.Order) orderRecord {
	return orderRecord{
		ID:            o.ID,
		Items:         o.Items,
		Total:         o.Total,
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		PaymentLink:   o.PaymentLink,
		CustomerName:  o.Customer.Name,
		CustomerPhone: o.Customer.Phone,
		DeviceHash:    o.DeviceHash,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (r orderRecord) toModel() models.Order {
	items := r.Items
	if items == nil {
		items = []models.OrderItem{}
	}
	return models.Order{
		ID:            r.ID,
		Items:         items,
		Total:         r.Total,
		PaymentMethod: models.PaymentMethod(r.PaymentMethod),
		PaymentStatus: models.PaymentStatus(r.PaymentStatus),
		PaymentLink:   r.PaymentLink,
		Customer:      models.Customer{Name: r.CustomerName, Phone: r.CustomerPhone},
		DeviceHash:    r.DeviceHash,
		Status:        models.OrderStatus(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

// OpenPostgres connects to databaseURL and migrates the orders table
func OpenPostgres(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&orderRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

// GormOrderRepository implements OrderRepository on a SQL database
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Ping checks the database connection
func (r *GormOrderRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	rec := toRecord(order)
	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateOrder
	}
	return err
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var rec orderRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o := rec.toModel()
	return &o, nil
}

func (r *GormOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&orderRecord{})

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if filter.DeviceHash != "" {
		q = q.Where("device_hash = ?", filter.DeviceHash)
	}

	var recs []orderRecord
	if err := q.Order("created_at DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, rec.toModel())
	}
	return orders, nil
}

// Update locks the row for the duration of fn
func (r *GormOrderRepository) Update(ctx context.Context, id string, fn func(order *models.Order) error) (*models.Order, error) {
	var updated models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec orderRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		updated = rec.toModel()
		if err := fn(&updated); err != nil {
			return err
		}

		updated.ID = id
		next := toRecord(&updated)
		return tx.Save(&next).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
