// repositories/commission_repository.go
package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nhammoud/homepros_backend/models"
	"github.com/nhammoud/homepros_backend/services"
)

const (
	rateSheetCacheKey = "rate_sheet:active"
	rateSheetCacheTTL = 10 * time.Minute
)

var _ services.Store = (*CommissionRepository)(nil)

// CommissionRepository is the MongoDB implementation of services.Store plus
// the read queries the admin API needs. The active rate sheet is served
// through a small Redis cache invalidated on every rate-sheet write;
// analytics always hit the database.
type CommissionRepository struct {
	DB    *mongo.Database
	Redis *redis.Client

	// defaultRecipientID, when set, is the injected commission recipient used
	// instead of scanning for an admin user.
	defaultRecipientID primitive.ObjectID
}

func NewCommissionRepository(db *mongo.Database, redisClient *redis.Client, defaultRecipientID primitive.ObjectID) *CommissionRepository {
	return &CommissionRepository{
		DB:                 db,
		Redis:              redisClient,
		defaultRecipientID: defaultRecipientID,
	}
}

// ActiveServiceCategories returns the rate sheet rows available for matching
func (r *CommissionRepository) ActiveServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	if r.Redis != nil {
		if val, err := r.Redis.Get(ctx, rateSheetCacheKey).Result(); err == nil {
			var cached []models.ServiceCategory
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			log.Printf("Redis error reading rate sheet cache: %v. Falling back to DB.", err)
		}
	}

	cursor, err := r.DB.Collection("serviceCategories").Find(ctx,
		bson.M{"isActive": true},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.ServiceCategory
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := r.Redis.Set(ctx, rateSheetCacheKey, data, rateSheetCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache rate sheet: %v", err)
			}
		}
	}

	return categories, nil
}

// InvalidateRateSheet drops the cached rate sheet; called after every
// rate-sheet write so the matcher never sees stale splits.
func (r *CommissionRepository) InvalidateRateSheet(ctx context.Context) {
	if r.Redis == nil {
		return
	}
	if err := r.Redis.Del(ctx, rateSheetCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate rate sheet cache: %v", err)
	}
}

// FindDefaultRecipient resolves the fallback recipient for unattributed
// commissions: the injected id if configured, otherwise the oldest admin.
func (r *CommissionRepository) FindDefaultRecipient(ctx context.Context) (*models.User, error) {
	var user models.User

	if !r.defaultRecipientID.IsZero() {
		err := r.DB.Collection("users").FindOne(ctx, bson.M{"_id": r.defaultRecipientID}).Decode(&user)
		if err == nil {
			return &user, nil
		}
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
		log.Printf("Configured default commission recipient %s not found, falling back to oldest admin", r.defaultRecipientID.Hex())
	}

	err := r.DB.Collection("users").FindOne(ctx,
		bson.M{"userType": "admin", "isActive": true},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *CommissionRepository) InsertCommissionRecord(ctx context.Context, record *models.CommissionRecord) error {
	_, err := r.DB.Collection("commission_records").InsertOne(ctx, record)
	return err
}

func (r *CommissionRepository) GetCommissionRecord(ctx context.Context, id primitive.ObjectID) (*models.CommissionRecord, error) {
	var record models.CommissionRecord
	err := r.DB.Collection("commission_records").FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, services.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *CommissionRepository) MarkCommissionRecordPaid(ctx context.Context, id primitive.ObjectID, paidAt time.Time) error {
	_, err := r.DB.Collection("commission_records").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"paymentStatus": models.PaymentStatusPaid,
			"paidAt":        paidAt,
		}},
	)
	return err
}

func (r *CommissionRepository) ApplyAdjustment(ctx context.Context, id primitive.ObjectID, newAmount float64) error {
	_, err := r.DB.Collection("commission_records").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"salesmanAmount": newAmount,
			"status":         models.CommissionStatusAdjusted,
		}},
	)
	return err
}

func (r *CommissionRepository) InsertCommissionAdjustment(ctx context.Context, adj *models.CommissionAdjustment) error {
	_, err := r.DB.Collection("commission_adjustments").InsertOne(ctx, adj)
	return err
}

func (r *CommissionRepository) InsertCommissionPayment(ctx context.Context, payment *models.CommissionPayment) error {
	_, err := r.DB.Collection("commission_payments").InsertOne(ctx, payment)
	return err
}

// IncrementSalespersonCommissions moves the running total in one $inc so
// concurrent commission events for the same salesperson cannot lose updates.
func (r *CommissionRepository) IncrementSalespersonCommissions(ctx context.Context, salespersonID primitive.ObjectID, delta float64) error {
	_, err := r.DB.Collection("salespersons").UpdateOne(ctx,
		bson.M{"_id": salespersonID},
		bson.M{
			"$inc": bson.M{"commissions": delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

func (r *CommissionRepository) UnpaidCommissionRecordsBefore(ctx context.Context, cutoff time.Time) ([]models.CommissionRecord, error) {
	cursor, err := r.DB.Collection("commission_records").Find(ctx, bson.M{
		"paymentStatus": models.PaymentStatusUnpaid,
		"createdAt":     bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CommissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CommissionFilter narrows ListCommissionRecords
type CommissionFilter struct {
	SalespersonID primitive.ObjectID
	PaymentStatus string
	From, To      *time.Time
	Limit         int64
}

// ListCommissionRecords returns records for the admin ops view, newest first
func (r *CommissionRepository) ListCommissionRecords(ctx context.Context, filter CommissionFilter) ([]models.CommissionRecord, error) {
	match := bson.M{}
	if !filter.SalespersonID.IsZero() {
		match["salespersonId"] = filter.SalespersonID
	}
	if filter.PaymentStatus != "" {
		match["paymentStatus"] = filter.PaymentStatus
	}
	if window := dateWindow(filter.From, filter.To); window != nil {
		match["createdAt"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.DB.Collection("commission_records").Find(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.CommissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAdjustments returns the audit trail for one commission record,
// oldest first
func (r *CommissionRepository) ListAdjustments(ctx context.Context, recordID primitive.ObjectID) ([]models.CommissionAdjustment, error) {
	cursor, err := r.DB.Collection("commission_adjustments").Find(ctx,
		bson.M{"commissionRecordId": recordID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var adjustments []models.CommissionAdjustment
	if err := cursor.All(ctx, &adjustments); err != nil {
		return nil, err
	}
	return adjustments, nil
}

// SalespersonSummary aggregates one salesperson's ledger: total earned,
// paid/pending split, record count, plus the 10 most recent records (or all
// records inside the window when one is given). Recomputed on every call.
func (r *CommissionRepository) SalespersonSummary(ctx context.Context, salespersonID primitive.ObjectID, from, to *time.Time) (*models.SalespersonSummary, error) {
	match := bson.M{"salespersonId": salespersonID}
	if window := dateWindow(from, to); window != nil {
		match["createdAt"] = window
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":         nil,
			"totalEarned": bson.M{"$sum": "$salesmanAmount"},
			"totalPaid": bson.M{"$sum": bson.M{"$cond": []interface{}{
				bson.M{"$eq": []interface{}{"$paymentStatus", models.PaymentStatusPaid}},
				"$salesmanAmount", 0,
			}}},
			"recordCount": bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.DB.Collection("commission_records").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summary := &models.SalespersonSummary{SalespersonID: salespersonID}
	if cursor.Next(ctx) {
		var result struct {
			TotalEarned float64 `bson:"totalEarned"`
			TotalPaid   float64 `bson:"totalPaid"`
			RecordCount int64   `bson:"recordCount"`
		}
		if err := cursor.Decode(&result); err == nil {
			summary.TotalEarned = result.TotalEarned
			summary.TotalPaid = result.TotalPaid
			summary.TotalPending = result.TotalEarned - result.TotalPaid
			summary.RecordCount = result.RecordCount
		}
	}

	recordFilter := CommissionFilter{SalespersonID: salespersonID, From: from, To: to}
	if from == nil && to == nil {
		recordFilter.Limit = 10
	}
	records, err := r.ListCommissionRecords(ctx, recordFilter)
	if err != nil {
		return nil, err
	}
	summary.Records = records

	var salesperson models.Salesperson
	if err := r.DB.Collection("salespersons").FindOne(ctx, bson.M{"_id": salespersonID}).Decode(&salesperson); err == nil {
		summary.FullName = salesperson.FullName
	}

	return summary, nil
}

// TopEarners groups the ledger by salesperson, sums salesman amounts, and
// returns the top n enriched with display names
func (r *CommissionRepository) TopEarners(ctx context.Context, n int64) ([]models.TopEarner, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":         "$salespersonId",
			"totalEarned": bson.M{"$sum": "$salesmanAmount"},
			"recordCount": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"totalEarned": -1}},
		{"$limit": n},
	}

	cursor, err := r.DB.Collection("commission_records").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var earners []models.TopEarner
	if err := cursor.All(ctx, &earners); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(earners))
	for _, e := range earners {
		ids = append(ids, e.SalespersonID)
	}
	if len(ids) > 0 {
		nameCursor, err := r.DB.Collection("salespersons").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err == nil {
			defer nameCursor.Close(ctx)
			names := make(map[primitive.ObjectID]string)
			var salespersons []models.Salesperson
			if err := nameCursor.All(ctx, &salespersons); err == nil {
				for _, sp := range salespersons {
					names[sp.ID] = sp.FullName
				}
				for i := range earners {
					earners[i].FullName = names[earners[i].SalespersonID]
				}
			}
		}
	}

	return earners, nil
}

// GlobalAnalytics sums the whole ledger, optionally windowed by date
func (r *CommissionRepository) GlobalAnalytics(ctx context.Context, from, to *time.Time) (*models.GlobalAnalytics, error) {
	match := bson.M{}
	if window := dateWindow(from, to); window != nil {
		match["createdAt"] = window
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":             nil,
			"totalCommission": bson.M{"$sum": "$totalCommission"},
			"salesmanTotal":   bson.M{"$sum": "$salesmanAmount"},
			"overrideTotal":   bson.M{"$sum": "$overrideAmount"},
			"corpTotal":       bson.M{"$sum": "$corpAmount"},
			"recordCount":     bson.M{"$sum": 1},
		}},
	}

	cursor, err := r.DB.Collection("commission_records").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	analytics := &models.GlobalAnalytics{}
	if cursor.Next(ctx) {
		if err := cursor.Decode(analytics); err != nil {
			return nil, err
		}
	}
	return analytics, nil
}

// dateWindow builds a half-open [from, to) createdAt filter
func dateWindow(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	window := bson.M{}
	if from != nil {
		window["$gte"] = *from
	}
	if to != nil {
		window["$lt"] = *to
	}
	return window
}
