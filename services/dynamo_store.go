package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"

	"samaj_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RequestLocksTable guards the one-active-request-per-pair invariant. A lock
// item exists while a pending or accepted request holds the pair; reject
// deletes it.
const RequestLocksTable = "RequestLocks"

// DynamoStore implements Store on DynamoDB. Atomic transitions use
// conditional writes; per-match sequence numbers come from an ADD update on
// the match item.
type DynamoStore struct {
	Dynamo *DynamoService
}

func NewDynamoStore(dynamo *DynamoService) *DynamoStore {
	return &DynamoStore{Dynamo: dynamo}
}

// --- profiles ---

func (s *DynamoStore) PutProfile(ctx context.Context, profile models.UserProfile) error {
	return s.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
}

func (s *DynamoStore) GetProfile(ctx context.Context, phone string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"phone": &types.AttributeValueMemberS{Value: phone},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

func (s *DynamoStore) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := s.Dynamo.ScanItems(ctx, models.UserProfilesTable, &profiles); err != nil {
		return nil, err
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Phone < profiles[j].Phone })
	return profiles, nil
}

// --- requests ---

type pairLock struct {
	PairKey   string `dynamodbav:"pair_key"`
	RequestID string `dynamodbav:"request_id"`
}

func (s *DynamoStore) PutRequest(ctx context.Context, req models.MatchRequest) error {
	lock := pairLock{
		PairKey:   models.PairKey(req.FromUserID, req.ToUserID),
		RequestID: req.ID,
	}
	if err := s.Dynamo.PutItemIfAbsent(ctx, RequestLocksTable, "pair_key", lock); err != nil {
		if conditionFailed(err) {
			return ErrDuplicateRequest
		}
		return err
	}
	return s.Dynamo.PutItem(ctx, models.MatchRequestsTable, req)
}

func (s *DynamoStore) GetRequest(ctx context.Context, id string) (*models.MatchRequest, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchRequestsTable, key)
	if err != nil {
		return nil, err
	}
	var req models.MatchRequest
	if err := attributevalue.UnmarshalMap(item, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

func (s *DynamoStore) ResolveRequest(ctx context.Context, id, status string) (*models.MatchRequest, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx,
		models.MatchRequestsTable,
		"SET #status = :status",
		"#status = :pending",
		key,
		map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: status},
			":pending": &types.AttributeValueMemberS{Value: models.RequestStatusPending},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		// The second writer loses the condition race and gets AlreadyResolved.
		if conditionFailed(err) {
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}
	var req models.MatchRequest
	if err := attributevalue.UnmarshalMap(attrs, &req); err != nil {
		return nil, fmt.Errorf("failed to parse resolved request: %w", err)
	}
	return &req, nil
}

func (s *DynamoStore) ReleasePair(ctx context.Context, userA, userB string) error {
	key := map[string]types.AttributeValue{
		"pair_key": &types.AttributeValueMemberS{Value: models.PairKey(userA, userB)},
	}
	return s.Dynamo.DeleteItem(ctx, RequestLocksTable, key)
}

func (s *DynamoStore) ListRequestsTo(ctx context.Context, user string) ([]models.MatchRequest, error) {
	return s.listRequestsByIndex(ctx, models.RequestToUserIndex, "to_user_id", user)
}

func (s *DynamoStore) ListRequestsFrom(ctx context.Context, user string) ([]models.MatchRequest, error) {
	return s.listRequestsByIndex(ctx, models.RequestFromUserIndex, "from_user_id", user)
}

func (s *DynamoStore) listRequestsByIndex(ctx context.Context, index, attr, user string) ([]models.MatchRequest, error) {
	keyCondition := fmt.Sprintf("%s = :user", attr)
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: user},
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchRequestsTable, index, keyCondition, expressionValues, nil, 200)
	if err != nil {
		return nil, err
	}
	var requests []models.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}
	// The GSI gives no ordering guarantee, sort newest first here.
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt != requests[j].CreatedAt {
			return requests[i].CreatedAt > requests[j].CreatedAt
		}
		return requests[i].ID > requests[j].ID
	})
	return requests, nil
}

// --- matches ---

func (s *DynamoStore) PutMatch(ctx context.Context, match models.Match) error {
	if err := s.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, "pair_key", match); err != nil {
		if conditionFailed(err) {
			return ErrAlreadyResolved
		}
		return err
	}
	return nil
}

func (s *DynamoStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	keyCondition := "match_id = :match_id"
	expressionValues := map[string]types.AttributeValue{
		":match_id": &types.AttributeValueMemberS{Value: matchID},
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.MatchIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	var match models.Match
	if err := attributevalue.UnmarshalMap(items[0], &match); err != nil {
		return nil, fmt.Errorf("failed to parse match: %w", err)
	}
	return &match, nil
}

func (s *DynamoStore) GetMatchByPair(ctx context.Context, userA, userB string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"pair_key": &types.AttributeValueMemberS{Value: models.PairKey(userA, userB)},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to parse match: %w", err)
	}
	return &match, nil
}

func (s *DynamoStore) ListMatchesForUser(ctx context.Context, user string) ([]models.Match, error) {
	var matches []models.Match

	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: user},
	}
	for index, condition := range map[string]string{
		models.MatchUser1Index: "user1 = :user",
		models.MatchUser2Index: "user2 = :user",
	} {
		items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, index, condition, expressionValues, nil, 200)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch matches: %w", err)
		}
		var part []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &part); err != nil {
			log.Printf("Error unmarshalling matches from %s: %v", index, err)
			continue
		}
		matches = append(matches, part...)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt > matches[j].CreatedAt })
	return matches, nil
}

// --- messages ---

func (s *DynamoStore) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.ClientKey != "" {
		if existing, err := s.findByClientKey(ctx, msg.MatchID, msg.ClientKey); err == nil && existing != nil {
			return existing, nil
		}
	}

	match, err := s.GetMatch(ctx, msg.MatchID)
	if err != nil {
		return nil, err
	}

	seq, err := s.nextSeq(ctx, match.PairKey)
	if err != nil {
		return nil, err
	}

	stored := *msg
	stored.Seq = seq
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// nextSeq bumps the match's message counter and returns the new value.
func (s *DynamoStore) nextSeq(ctx context.Context, pairKey string) (int64, error) {
	key := map[string]types.AttributeValue{
		"pair_key": &types.AttributeValueMemberS{Value: pairKey},
	}
	attrs, err := s.Dynamo.UpdateItem(ctx,
		models.MatchesTable,
		"ADD last_seq :one",
		key,
		map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		nil,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to advance message sequence: %w", err)
	}
	var match models.Match
	if err := attributevalue.UnmarshalMap(attrs, &match); err != nil {
		return 0, fmt.Errorf("failed to parse sequence update: %w", err)
	}
	return match.LastSeq, nil
}

// findByClientKey is the idempotent-send lookup. Best effort: a concurrent
// duplicate send can still slip through the GSI propagation window, which
// only costs one duplicated message, never a lost one.
func (s *DynamoStore) findByClientKey(ctx context.Context, matchID, clientKey string) (*models.Message, error) {
	keyCondition := "client_key = :client_key"
	expressionValues := map[string]types.AttributeValue{
		":client_key": &types.AttributeValueMemberS{Value: clientKey},
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.MessageClientKeyIndex, keyCondition, expressionValues, nil, 10)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		var m models.Message
		if err := attributevalue.UnmarshalMap(item, &m); err != nil {
			continue
		}
		if m.MatchID == matchID {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *DynamoStore) ListMessages(ctx context.Context, matchID string) ([]models.Message, error) {
	keyCondition := "match_id = :match_id"
	expressionValues := map[string]types.AttributeValue{
		":match_id": &types.AttributeValueMemberS{Value: matchID},
	}
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 0, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}

func (s *DynamoStore) LatestMessage(ctx context.Context, matchID string) (*models.Message, error) {
	keyCondition := "match_id = :match_id"
	expressionValues := map[string]types.AttributeValue{
		":match_id": &types.AttributeValueMemberS{Value: matchID},
	}
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, 1, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	var m models.Message
	if err := attributevalue.UnmarshalMap(items[0], &m); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &m, nil
}

func (s *DynamoStore) SetDelivered(ctx context.Context, ids []string) error {
	return s.setFlags(ctx, ids, "SET delivered = :true")
}

// SetSeen raises delivered too, so seen can never be observed without
// delivered.
func (s *DynamoStore) SetSeen(ctx context.Context, ids []string) error {
	return s.setFlags(ctx, ids, "SET seen = :true, delivered = :true")
}

func (s *DynamoStore) setFlags(ctx context.Context, ids []string, updateExpression string) error {
	for _, id := range ids {
		key, err := s.messageKey(ctx, id)
		if err != nil {
			// Unknown ids are a no-op per the idempotence contract.
			continue
		}
		_, err = s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key,
			map[string]types.AttributeValue{
				":true": &types.AttributeValueMemberBOOL{Value: true},
			},
			nil,
		)
		if err != nil {
			log.Printf("Failed to flag message %s: %v", id, err)
		}
	}
	return nil
}

// messageKey resolves a bare message id to its (match_id, seq) primary key
// through the id GSI.
func (s *DynamoStore) messageKey(ctx context.Context, id string) (map[string]types.AttributeValue, error) {
	keyCondition := "id = :id"
	expressionValues := map[string]types.AttributeValue{
		":id": &types.AttributeValueMemberS{Value: id},
	}
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MessagesTable, models.MessageIDIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	var m models.Message
	if err := attributevalue.UnmarshalMap(items[0], &m); err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{
		"match_id": &types.AttributeValueMemberS{Value: m.MatchID},
		"seq":      &types.AttributeValueMemberN{Value: strconv.FormatInt(m.Seq, 10)},
	}, nil
}

// --- public chat ---

// publicCounterRoom holds the shared room's sequence counter item.
const publicCounterRoom = models.PublicRoom + "#counter"

func (s *DynamoStore) AppendPublicMessage(ctx context.Context, msg *models.PublicMessage) (*models.PublicMessage, error) {
	key := map[string]types.AttributeValue{
		"room": &types.AttributeValueMemberS{Value: publicCounterRoom},
		"seq":  &types.AttributeValueMemberN{Value: "0"},
	}
	attrs, err := s.Dynamo.UpdateItem(ctx,
		models.PublicMessagesTable,
		"ADD last_seq :one",
		key,
		map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to advance public sequence: %w", err)
	}
	var counter struct {
		LastSeq int64 `dynamodbav:"last_seq"`
	}
	if err := attributevalue.UnmarshalMap(attrs, &counter); err != nil {
		return nil, fmt.Errorf("failed to parse public sequence: %w", err)
	}

	stored := *msg
	stored.Room = models.PublicRoom
	stored.Seq = counter.LastSeq
	if err := s.Dynamo.PutItem(ctx, models.PublicMessagesTable, stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *DynamoStore) ListPublicMessages(ctx context.Context, limit int) ([]models.PublicMessage, error) {
	keyCondition := "room = :room"
	expressionValues := map[string]types.AttributeValue{
		":room": &types.AttributeValueMemberS{Value: models.PublicRoom},
	}
	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.PublicMessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public messages: %w", err)
	}
	var messages []models.PublicMessage
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse public messages: %w", err)
	}
	// Query walked newest-first to honor the limit; present oldest-first.
	sort.Slice(messages, func(i, j int) bool { return messages[i].Seq < messages[j].Seq })
	return messages, nil
}
