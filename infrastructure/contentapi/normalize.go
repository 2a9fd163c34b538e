package contentapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"

	"go.uber.org/zap"
)

type rawRecord map[string]json.RawMessage

var (
	uniqueIDKeys  = []string{"unique_id", "uniqueId"}
	biographyKeys = []string{"linked_biography_id", "linkedBiographyId"}
	parentsKeys   = []string{"parents", "parent_relations", "chart_parents"}
	createdAtKeys = []string{"created_at", "createdAt"}
	updatedAtKeys = []string{"updated_at", "updatedAt"}
	teacherIDKeys = []string{"parent_id", "teacher_id", "parentId", "teacherId"}
	nestedKeys    = []string{"parent", "teacher"}
)

// Normalizer converts loosely typed content API records into chart nodes
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// NormalizeList decodes the list endpoint body, which is either a bare
// array or an envelope of the form {"data": [...]}. Records without a
// usable id are skipped.
func (n *Normalizer) NormalizeList(body []byte) ([]*entities.ChartNode, error) {
	payload, err := unwrapEnvelope(body)
	if err != nil {
		return nil, err
	}

	var records []rawRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("chart list is not an array of records: %w", err)
	}

	nodes := make([]*entities.ChartNode, 0, len(records))
	for i, record := range records {
		node, err := n.normalizeNode(record)
		if err != nil {
			n.logger.Warn("Skipping malformed chart record",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// NormalizeNode decodes a single-node body, bare or wrapped in {"data": {...}}
func (n *Normalizer) NormalizeNode(body []byte) (*entities.ChartNode, error) {
	payload, err := unwrapEnvelope(body)
	if err != nil {
		return nil, err
	}

	var record rawRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("chart node is not an object: %w", err)
	}
	return n.normalizeNode(record)
}

func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	if body[0] != '{' {
		return body, nil
	}

	var record rawRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	if data, ok := present(record, "data"); ok {
		if _, hasID := record["id"]; !hasID {
			return data, nil
		}
	}
	return body, nil
}

func (n *Normalizer) normalizeNode(record rawRecord) (*entities.ChartNode, error) {
	var id valueobjects.NodeID
	raw, ok := present(record, "id")
	if !ok {
		return nil, errors.New("record has no id")
	}
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("invalid id %s: %w", string(raw), err)
	}

	node := &entities.ChartNode{
		ID:        id,
		UniqueID:  stringField(record, uniqueIDKeys...),
		Name:      stringField(record, "name"),
		Image:     optionalString(record, "image"),
		CreatedAt: timeField(record, createdAtKeys...),
		UpdatedAt: timeField(record, updatedAtKeys...),
		Parents:   make([]entities.ParentRelation, 0),
	}

	if bio := nodeIDField(record, biographyKeys...); !bio.IsZero() {
		node.LinkedBiographyID = &bio
	}

	if raw, ok := present(record, parentsKeys...); ok {
		var relations []rawRecord
		if err := json.Unmarshal(raw, &relations); err != nil {
			n.logger.Debug("Ignoring unreadable parent relations",
				zap.String("nodeID", id.String()),
				zap.Error(err),
			)
			return node, nil
		}
		for _, rel := range relations {
			relation, ok := normalizeRelation(rel)
			if !ok {
				n.logger.Debug("Dropping parent relation without teacher id",
					zap.String("nodeID", id.String()),
				)
				continue
			}
			node.Parents = append(node.Parents, relation)
		}
	}

	return node, nil
}

func normalizeRelation(record rawRecord) (entities.ParentRelation, bool) {
	relation := entities.ParentRelation{
		TeacherNodeID: nodeIDField(record, teacherIDKeys...),
		CreatedAt:     timeField(record, createdAtKeys...),
	}

	for _, key := range nestedKeys {
		raw, ok := present(record, key)
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '{' {
			var nested rawRecord
			if err := json.Unmarshal(raw, &nested); err != nil {
				continue
			}
			if relation.TeacherNodeID.IsZero() {
				relation.TeacherNodeID = nodeIDField(nested, "id")
			}
			if relation.Teacher.Name == "" {
				relation.Teacher.Name = stringField(nested, "name")
			}
			if relation.Teacher.UniqueID == "" {
				relation.Teacher.UniqueID = stringField(nested, uniqueIDKeys...)
			}
			continue
		}
		if relation.TeacherNodeID.IsZero() {
			var id valueobjects.NodeID
			if err := json.Unmarshal(raw, &id); err == nil {
				relation.TeacherNodeID = id
			}
		}
	}

	if relation.Teacher.Name == "" {
		relation.Teacher.Name = stringField(record, "parent_name", "teacher_name")
	}
	if relation.Teacher.UniqueID == "" {
		relation.Teacher.UniqueID = stringField(record, "parent_unique_id", "teacher_unique_id")
	}

	return relation, !relation.TeacherNodeID.IsZero()
}

// present returns the first key holding a non-null value
func present(record rawRecord, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || string(trimmed) == "null" {
			continue
		}
		return trimmed, true
	}
	return nil, false
}

func stringField(record rawRecord, keys ...string) string {
	raw, ok := present(record, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// numbers and booleans keep their literal text
	if raw[0] != '{' && raw[0] != '[' {
		return string(raw)
	}
	return ""
}

func optionalString(record rawRecord, keys ...string) *string {
	raw, ok := present(record, keys...)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func nodeIDField(record rawRecord, keys ...string) valueobjects.NodeID {
	for _, key := range keys {
		raw, ok := present(record, key)
		if !ok {
			continue
		}
		var id valueobjects.NodeID
		if err := json.Unmarshal(raw, &id); err == nil && !id.IsZero() {
			return id
		}
	}
	return 0
}

func timeField(record rawRecord, keys ...string) time.Time {
	raw := stringField(record, keys...)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
