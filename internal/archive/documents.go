package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/value"
	"github.com/roach88/jpack/internal/wire"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Document is a stored compressed tree.
type Document struct {
	Seq  int64  `json:"seq"`
	ID   string `json:"id"`
	Name string `json:"name"`

	// ContentHash identifies the logical content: key order is ignored
	// and special numbers hash as null. Equal ContentHash does not mean
	// equal encodings.
	ContentHash string `json:"content_hash"`

	// EncodingHash identifies the exact value list, root and options.
	// A name holds at most one document per EncodingHash.
	EncodingHash string `json:"encoding_hash"`

	Root       string        `json:"root"`
	ValueCount int           `json:"value_count"`
	Options    codec.Options `json:"options"`

	// PackedSize is the size of the zstd-packed wire document.
	PackedSize int `json:"packed_size"`

	// Compressed is only populated by Get and Put.
	Compressed codec.Compressed `json:"-"`
}

// Put compresses v with opts and stores it under name. If name already
// holds a document with the identical encoding (same value list, root and
// options), that document is returned unchanged.
func (a *Archive) Put(ctx context.Context, name string, v value.Value, opts codec.Options) (Document, error) {
	c, err := codec.Compress(v, opts)
	if err != nil {
		return Document{}, fmt.Errorf("put document: %w", err)
	}

	// Hash what decompression yields, so special numbers the options
	// dropped do not make the content unhashable.
	stored, err := codec.Decompress(c)
	if err != nil {
		return Document{}, fmt.Errorf("put document: %w", err)
	}
	hash, err := value.ContentHash(stored)
	if err != nil {
		return Document{}, fmt.Errorf("put document: %w", err)
	}

	payload, err := wire.Pack(c)
	if err != nil {
		return Document{}, fmt.Errorf("put document: %w", err)
	}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return Document{}, fmt.Errorf("put document: marshal options: %w", err)
	}
	encHash, err := encodingHash(c, optsJSON)
	if err != nil {
		return Document{}, fmt.Errorf("put document: %w", err)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, fmt.Errorf("put document: begin tx: %w", err)
	}
	defer tx.Rollback()

	id := a.ids.Generate()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO documents
		(id, name, content_hash, encoding_hash, root_key, value_count, options, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, encoding_hash) DO NOTHING
	`,
		id,
		name,
		hash,
		encHash,
		c.Root,
		len(c.Values),
		string(optsJSON),
		payload,
	)
	if err != nil {
		return Document{}, fmt.Errorf("put document: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return Document{}, fmt.Errorf("put document: rows affected: %w", err)
	}

	var doc Document
	if rowsAffected > 0 {
		seq, err := result.LastInsertId()
		if err != nil {
			return Document{}, fmt.Errorf("put document: last insert id: %w", err)
		}
		doc = Document{
			Seq:          seq,
			ID:           id,
			Name:         name,
			ContentHash:  hash,
			EncodingHash: encHash,
			Root:         c.Root,
			ValueCount:   len(c.Values),
			Options:      opts,
			PackedSize:   len(payload),
			Compressed:   c,
		}
	} else {
		row := tx.QueryRowContext(ctx, `
			SELECT seq, id, name, content_hash, encoding_hash, root_key, value_count, options, payload
			FROM documents
			WHERE name = ? AND encoding_hash = ?
		`, name, encHash)
		doc, err = scanDocument(row, true)
		if err != nil {
			return Document{}, fmt.Errorf("put document: select existing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Document{}, fmt.Errorf("put document: commit: %w", err)
	}

	Logger().Debug("document stored",
		zap.String("id", doc.ID),
		zap.String("name", name),
		zap.Bool("inserted", rowsAffected > 0),
		zap.Int("values", doc.ValueCount))
	return doc, nil
}

// Get returns the document with the given id, including its compressed form.
func (a *Archive) Get(ctx context.Context, id string) (Document, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT seq, id, name, content_hash, encoding_hash, root_key, value_count, options, payload
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row, true)
	if err != nil {
		return Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	Logger().Debug("document read", zap.String("id", id))
	return doc, nil
}

// GetValue returns the decompressed tree of the document with the given id.
func (a *Archive) GetValue(ctx context.Context, id string) (value.Value, error) {
	doc, err := a.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := codec.Decompress(doc.Compressed)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return v, nil
}

// List returns all documents without their compressed form, in insertion
// order. Returns an empty slice (not nil) for an empty archive.
func (a *Archive) List(ctx context.Context) ([]Document, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT seq, id, name, content_hash, encoding_hash, root_key, value_count, options, payload
		FROM documents
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows, false)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Delete removes the document with the given id.
func (a *Archive) Delete(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete document %s: %w", id, ErrNotFound)
	}
	Logger().Debug("document deleted", zap.String("id", id))
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one documents row. The payload is only unpacked
// when withPayload is set.
func scanDocument(s scanner, withPayload bool) (Document, error) {
	var (
		doc      Document
		optsJSON string
		payload  []byte
	)
	err := s.Scan(
		&doc.Seq,
		&doc.ID,
		&doc.Name,
		&doc.ContentHash,
		&doc.EncodingHash,
		&doc.Root,
		&doc.ValueCount,
		&optsJSON,
		&payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("scan document: %w", err)
	}

	if err := json.Unmarshal([]byte(optsJSON), &doc.Options); err != nil {
		return Document{}, fmt.Errorf("scan document %s: options: %w", doc.ID, err)
	}
	doc.PackedSize = len(payload)

	if withPayload {
		doc.Compressed, err = wire.Unpack(payload)
		if err != nil {
			return Document{}, fmt.Errorf("scan document %s: %w", doc.ID, err)
		}
	}
	return doc, nil
}
