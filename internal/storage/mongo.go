package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vaultx/vaultx/internal/models"
	"github.com/vaultx/vaultx/internal/shared"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	accountsCollection = "accounts"
	groupsCollection   = "groups"

	mongoConnectTimeout = 10 * time.Second
	mongoPingTimeout    = 5 * time.Second
)

// MongoBackend implements [Backend] over a MongoDB database.
//
// Each entity is one document keyed by its own id as _id. Cookies and
// account membership lists are stored as native nested values; an absent
// cookies field is the document simply not carrying it.
type MongoBackend struct {
	uri      string
	database string
	decode   DecodePolicy
	client   *mongo.Client
	db       *mongo.Database
	logger   *log.Logger
}

// NewMongoBackend creates an unconnected backend for the given endpoint
// and logical database name.
func NewMongoBackend(uri, database string, decode DecodePolicy, logger *log.Logger) *MongoBackend {
	return &MongoBackend{uri: uri, database: database, decode: decode, logger: logger}
}

func (b *MongoBackend) Kind() Kind { return KindMongo }

func (b *MongoBackend) Name() string { return fmt.Sprintf("mongodb (%s/%s)", b.uri, b.database) }

// Connect establishes a client session and pings the deployment. The ping
// is what actually probes reachability; constructing a client alone does
// not touch the network.
func (b *MongoBackend) Connect(ctx context.Context) error {
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(b.uri))
	if err != nil {
		return fmt.Errorf("%w: failed to connect to %s: %v", shared.ErrConnectionFailed, b.uri, err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, mongoPingTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("%w: failed to ping %s: %v", shared.ErrConnectionFailed, b.uri, err)
	}

	b.client = client
	b.db = client.Database(b.database)
	b.logger.Debug("connected to mongodb", "uri", b.uri, "database", b.database)
	return nil
}

// Close disconnects the client. Safe to call repeatedly or without a
// prior successful Connect.
func (b *MongoBackend) Close(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	err := b.client.Disconnect(ctx)
	b.client = nil
	b.db = nil
	return err
}

// EnsureSchema is a no-op: collections materialize on first write.
func (b *MongoBackend) EnsureSchema(ctx context.Context) error {
	if b.db == nil {
		return shared.ErrNotConnected
	}
	return nil
}

// ReadAccounts returns every account ordered ascending by id.
func (b *MongoBackend) ReadAccounts(ctx context.Context) ([]models.Account, error) {
	if b.db == nil {
		return nil, shared.ErrNotConnected
	}

	docs, err := b.findSorted(ctx, accountsCollection)
	if err != nil {
		return nil, err
	}

	var accounts []models.Account
	for _, doc := range docs {
		acc, err := b.accountFromDocument(doc)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// ReadGroups returns every group ordered ascending by id.
func (b *MongoBackend) ReadGroups(ctx context.Context) ([]models.Group, error) {
	if b.db == nil {
		return nil, shared.ErrNotConnected
	}

	docs, err := b.findSorted(ctx, groupsCollection)
	if err != nil {
		return nil, err
	}

	var groups []models.Group
	for _, doc := range docs {
		grp, err := b.groupFromDocument(doc)
		if err != nil {
			return nil, err
		}
		groups = append(groups, grp)
	}

	return groups, nil
}

// WriteAccounts upserts every account by id via ReplaceOne. A failing
// record does not stop the rest of the batch.
func (b *MongoBackend) WriteAccounts(ctx context.Context, accounts []models.Account) error {
	if b.db == nil {
		return shared.ErrNotConnected
	}

	coll := b.db.Collection(accountsCollection)
	opts := options.Replace().SetUpsert(true)

	var errs []error
	for _, acc := range accounts {
		doc := accountToDocument(acc)
		if _, err := coll.ReplaceOne(ctx, bson.M{"_id": acc.ID}, doc, opts); err != nil {
			errs = append(errs, fmt.Errorf("%w: failed to upsert account %s: %v", shared.ErrWrite, acc.ID, err))
		}
	}

	return errors.Join(errs...)
}

// WriteGroups upserts every group by id via ReplaceOne.
func (b *MongoBackend) WriteGroups(ctx context.Context, groups []models.Group) error {
	if b.db == nil {
		return shared.ErrNotConnected
	}

	coll := b.db.Collection(groupsCollection)
	opts := options.Replace().SetUpsert(true)

	var errs []error
	for _, grp := range groups {
		doc := groupToDocument(grp)
		if _, err := coll.ReplaceOne(ctx, bson.M{"_id": grp.ID}, doc, opts); err != nil {
			errs = append(errs, fmt.Errorf("%w: failed to upsert group %s: %v", shared.ErrWrite, grp.ID, err))
		}
	}

	return errors.Join(errs...)
}

// findSorted fetches every document in a collection ordered by _id ascending.
func (b *MongoBackend) findSorted(ctx context.Context, collection string) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := b.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %v", shared.ErrRead, collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", shared.ErrRead, collection, err)
	}

	return docs, nil
}

// accountToDocument builds the stored document shape. The cookies field is
// appended only when present so that absence round-trips as absence.
func accountToDocument(acc models.Account) bson.D {
	doc := bson.D{
		{Key: "_id", Value: acc.ID},
		{Key: "role_name", Value: acc.RoleName},
		{Key: "user_name", Value: acc.UserName},
		{Key: "password", Value: acc.Password},
		{Key: "server_id", Value: acc.ServerID},
		{Key: "ranking", Value: acc.Ranking},
	}
	if acc.Cookies != nil {
		doc = append(doc, bson.E{Key: "cookies", Value: acc.Cookies})
	}
	return doc
}

// groupToDocument builds the stored document shape. A nil description is
// stored as an explicit null; the member list is never absent.
func groupToDocument(grp models.Group) bson.D {
	ids := grp.AccountIDs
	if ids == nil {
		ids = []string{}
	}
	return bson.D{
		{Key: "_id", Value: grp.ID},
		{Key: "name", Value: grp.Name},
		{Key: "description", Value: grp.Description},
		{Key: "account_ids", Value: ids},
		{Key: "ranking", Value: grp.Ranking},
	}
}

func (b *MongoBackend) accountFromDocument(doc bson.M) (models.Account, error) {
	acc := models.Account{
		ID:       stringField(doc, "_id"),
		RoleName: stringField(doc, "role_name"),
		UserName: stringField(doc, "user_name"),
		Password: stringField(doc, "password"),
		ServerID: intField(doc, "server_id"),
		Ranking:  intField(doc, "ranking"),
	}

	cookies, err := cookiesField(doc, b.decode)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: cookies for account %s: %v", shared.ErrDecode, acc.ID, err)
	}
	acc.Cookies = cookies

	return acc, nil
}

func (b *MongoBackend) groupFromDocument(doc bson.M) (models.Group, error) {
	grp := models.Group{
		ID:      stringField(doc, "_id"),
		Name:    stringField(doc, "name"),
		Ranking: intField(doc, "ranking"),
	}

	if desc, ok := doc["description"].(string); ok {
		grp.Description = &desc
	}

	ids, err := idsField(doc, b.decode)
	if err != nil {
		return models.Group{}, fmt.Errorf("%w: account_ids for group %s: %v", shared.ErrDecode, grp.ID, err)
	}
	grp.AccountIDs = ids

	return grp, nil
}

// stringField reads a string value, normalizing absent or non-string
// values to the empty string.
func stringField(doc bson.M, key string) string {
	s, _ := doc[key].(string)
	return s
}

// intField reads a numeric value across the integer widths the driver may
// decode into, normalizing absence to 0.
func intField(doc bson.M, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// cookiesField reads the optional cookies array. Absence reads as nil; a
// present array reads as a slice of cookie maps, normalized through JSON
// so both backend kinds produce identical model values. A value of any
// other shape follows the decode policy.
func cookiesField(doc bson.M, policy DecodePolicy) ([]models.Cookie, error) {
	raw, present := doc["cookies"]
	if !present || raw == nil {
		return nil, nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		if policy == DecodeStrict {
			return nil, err
		}
		return nil, nil
	}

	var cookies []models.Cookie
	if err := json.Unmarshal(encoded, &cookies); err != nil {
		if policy == DecodeStrict {
			return nil, err
		}
		return nil, nil
	}
	if cookies == nil {
		cookies = []models.Cookie{}
	}
	return cookies, nil
}

// idsField reads the member id array, normalizing absence to an empty
// list. Entries of any other shape follow the decode policy.
func idsField(doc bson.M, policy DecodePolicy) ([]string, error) {
	raw, present := doc["account_ids"]
	if !present || raw == nil {
		return []string{}, nil
	}

	var entries []any
	switch v := raw.(type) {
	case bson.A:
		entries = v
	case []any:
		entries = v
	default:
		if policy == DecodeStrict {
			return nil, fmt.Errorf("unexpected value of type %T", raw)
		}
		return []string{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		id, ok := entry.(string)
		if !ok {
			if policy == DecodeStrict {
				return nil, fmt.Errorf("unexpected member of type %T", entry)
			}
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var _ Backend = (*MongoBackend)(nil)
