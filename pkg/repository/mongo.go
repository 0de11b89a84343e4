package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/orderdesk/pkg/config"
	"github.com/example/orderdesk/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrRemoteTimeout marks a remote call that exceeded the configured bound.
	ErrRemoteTimeout = errors.New("remote call timed out")
)

const (
	ordersCollection    = "orders"
	inventoryCollection = "inventory"
	customersCollection = "customers"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// opContext bounds a single remote call (there is no unbounded remote
// I/O anywhere in the repository).
func (m *MongoRepository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := m.config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func remoteErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrRemoteTimeout
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// OrderRepository persists order documents keyed by user and order id.
type OrderRepository struct {
	repo *MongoRepository
}

func (m *MongoRepository) Orders() *OrderRepository {
	return &OrderRepository{repo: m}
}

func (r *OrderRepository) List(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	collection := r.repo.database.Collection(ordersCollection)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, remoteErr(err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, remoteErr(err)
	}

	return orders, nil
}

// Create assigns the id and stamps created_at/updated_at server-side.
func (r *OrderRepository) Create(ctx context.Context, userID string, order models.Order) (string, error) {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	order.ID = uuid.NewString()
	order.UserID = userID
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	collection := r.repo.database.Collection(ordersCollection)
	if _, err := collection.InsertOne(ctx, order); err != nil {
		return "", remoteErr(err)
	}

	return order.ID, nil
}

// Patch applies a partial-field update and stamps updated_at.
func (r *OrderRepository) Patch(ctx context.Context, userID, orderID string, patch models.OrderPatch) error {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	collection := r.repo.database.Collection(ordersCollection)
	filter := bson.M{"_id": orderID, "user_id": userID}

	res, err := collection.UpdateOne(ctx, filter, bson.M{"$set": patchToSet(patch)})
	if err != nil {
		return remoteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// patchToSet flattens a merge patch into dotted $set paths so that an
// update touching payment.total_paid leaves payment.partial_payments
// alone on the remote side as well.
func patchToSet(p models.OrderPatch) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.PaymentStatus != nil {
		set["payment_status"] = *p.PaymentStatus
	}
	if p.TotalAmount != nil {
		set["total_amount"] = *p.TotalAmount
	}
	if p.Payment != nil {
		if p.Payment.TotalAmount != nil {
			set["payment.total_amount"] = *p.Payment.TotalAmount
		}
		if p.Payment.TotalPaid != nil {
			set["payment.total_paid"] = *p.Payment.TotalPaid
		}
		if p.Payment.PartialPayments != nil {
			set["payment.partial_payments"] = p.Payment.PartialPayments
		}
	}
	if p.Customer != nil {
		if p.Customer.Name != nil {
			set["customer.name"] = *p.Customer.Name
		}
		if p.Customer.WhatsappNumber != nil {
			set["customer.whatsapp_number"] = *p.Customer.WhatsappNumber
		}
		if p.Customer.RewardPoint != nil {
			set["customer.reward_point"] = *p.Customer.RewardPoint
		}
	}
	return set
}

// InventoryRepository stores per-user stock counts, one document per item.
type InventoryRepository struct {
	repo *MongoRepository
}

func (m *MongoRepository) Inventory() *InventoryRepository {
	return &InventoryRepository{repo: m}
}

type stockDoc struct {
	UserID   string `bson:"user_id"`
	ItemID   string `bson:"item_id"`
	Quantity int    `bson:"quantity"`
}

func (r *InventoryRepository) ReadQuantity(ctx context.Context, userID, itemID string) (int, error) {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	collection := r.repo.database.Collection(inventoryCollection)
	filter := bson.M{"user_id": userID, "item_id": itemID}

	var doc stockDoc
	if err := collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return 0, remoteErr(err)
	}
	return doc.Quantity, nil
}

func (r *InventoryRepository) WriteQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	collection := r.repo.database.Collection(inventoryCollection)
	filter := bson.M{"user_id": userID, "item_id": itemID}
	update := bson.M{"$set": bson.M{"quantity": quantity, "updated_at": time.Now().UTC()}}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return remoteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CustomerRepository persists customer profile documents per user.
type CustomerRepository struct {
	repo *MongoRepository
}

func (m *MongoRepository) Customers() *CustomerRepository {
	return &CustomerRepository{repo: m}
}

func (r *CustomerRepository) List(ctx context.Context, userID string) ([]models.Customer, error) {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	collection := r.repo.database.Collection(customersCollection)
	cursor, err := collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, remoteErr(err)
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, remoteErr(err)
	}
	return customers, nil
}

func (r *CustomerRepository) Get(ctx context.Context, userID, customerID string) (*models.Customer, error) {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	collection := r.repo.database.Collection(customersCollection)
	filter := bson.M{"_id": customerID, "user_id": userID}

	var customer models.Customer
	if err := collection.FindOne(ctx, filter).Decode(&customer); err != nil {
		return nil, remoteErr(err)
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(ctx context.Context, userID string, customer models.Customer) (string, error) {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	customer.ID = uuid.NewString()
	customer.UserID = userID
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	collection := r.repo.database.Collection(customersCollection)
	if _, err := collection.InsertOne(ctx, customer); err != nil {
		return "", remoteErr(err)
	}
	return customer.ID, nil
}

func (r *CustomerRepository) Update(ctx context.Context, userID, customerID string, patch models.CustomerPatch) error {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.WhatsappNumber != nil {
		set["whatsapp_number"] = *patch.WhatsappNumber
	}
	if patch.RewardPoint != nil {
		set["reward_point"] = *patch.RewardPoint
	}

	collection := r.repo.database.Collection(customersCollection)
	filter := bson.M{"_id": customerID, "user_id": userID}

	res, err := collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return remoteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, userID, customerID string) error {
	ctx, cancel := r.repo.opContext(ctx)
	defer cancel()

	collection := r.repo.database.Collection(customersCollection)
	filter := bson.M{"_id": customerID, "user_id": userID}

	res, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return remoteErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
