package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"github.com/rpupo63/jhipster-sample-services/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var productSortFields = map[string]string{
	"id":               "_id",
	"title":            "title",
	"price":            "price",
	"imageContentType": "image_content_type",
	"createdDate":      "created_date",
	"lastModifiedDate": "last_modified_date",
}

// productDocument is the stored shape: the id is an ObjectID on disk and a
// hex string everywhere else.
type productDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	models.Product `bson:",inline"`
}

func (d productDocument) toModel() *models.Product {
	product := d.Product
	product.ID = d.ID.Hex()
	return &product
}

type ProductRepo struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewProductRepo(collection *mongo.Collection) *ProductRepo {
	return &ProductRepo{collection: collection, now: time.Now}
}

// Save inserts a product without an id and replaces one with an id. Audit
// fields are stamped with auditor, keeping the stored creation stamps.
func (r *ProductRepo) Save(ctx context.Context, product *models.Product, auditor string) (*models.Product, error) {
	now := r.now().UTC().Truncate(time.Millisecond)

	if product.ID == "" {
		doc := productDocument{ID: primitive.NewObjectID(), Product: *product}
		doc.Auditing.StampCreated(auditor, now)
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			return nil, errs.NewDatabaseError("insert", "product", err)
		}
		return doc.toModel(), nil
	}

	objectID, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return nil, errs.NewNotFound("product")
	}
	existing, err := r.findDocument(ctx, objectID)
	if err != nil {
		return nil, err
	}

	doc := productDocument{ID: objectID, Product: *product}
	doc.Auditing.StampModified(existing.Auditing, auditor, now)
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objectID}, doc)
	if err != nil {
		return nil, errs.NewDatabaseError("update", "product", err)
	}
	if result.MatchedCount == 0 {
		return nil, errs.NewNotFound("product")
	}
	return doc.toModel(), nil
}

// FindByID returns a product by its ID
func (r *ProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.NewNotFound("product")
	}
	doc, err := r.findDocument(ctx, objectID)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *ProductRepo) findDocument(ctx context.Context, id primitive.ObjectID) (*productDocument, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.NewNotFound("product")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "product", err)
	}
	return &doc, nil
}

// FindPage returns one sorted page of products
func (r *ProductRepo) FindPage(ctx context.Context, pageable models.Pageable) ([]*models.Product, error) {
	sort, err := sortDocument(pageable.Sort)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(pageable.Offset()).
		SetLimit(int64(pageable.Size))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "products", err)
	}
	defer cursor.Close(ctx)

	products := make([]*models.Product, 0, pageable.Size)
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, errs.NewDatabaseError("decode", "product", err)
		}
		products = append(products, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.NewDatabaseError("list", "products", err)
	}
	return products, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errs.NewDatabaseError("count", "products", err)
	}
	return total, nil
}

func (r *ProductRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	total, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, errs.NewDatabaseError("find", "product", err)
	}
	return total > 0, nil
}

// DeleteByID removes a product. A missing product is not an error.
func (r *ProductRepo) DeleteByID(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return errs.NewDatabaseError("delete", "product", err)
	}
	return nil
}

// sortDocument maps API sort orders onto document fields, always ending on
// _id so that pages are stable.
func sortDocument(orders []models.SortOrder) (bson.D, error) {
	sort := bson.D{}
	sortedByID := false
	for _, order := range orders {
		field, ok := productSortFields[order.Property]
		if !ok {
			return nil, errs.NewBadRequestError(fmt.Sprintf("cannot sort by '%s'", order.Property))
		}
		direction := 1
		if order.Descending {
			direction = -1
		}
		if field == "_id" {
			sortedByID = true
		}
		sort = append(sort, bson.E{Key: field, Value: direction})
	}
	if !sortedByID {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort, nil
}
