package journal

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/model"
)

const dateFormat = time.DateOnly

// Document is the YAML form of a list of transactions.
type Document struct {
	Transactions []TransactionRecord `yaml:"transactions"`
}

// TransactionRecord is one transaction as written in a YAML file.
type TransactionRecord struct {
	ID          string        `yaml:"id,omitempty"`
	Type        string        `yaml:"type,omitempty"`
	Date        string        `yaml:"date"`
	Description string        `yaml:"description,omitempty"`
	Payee       string        `yaml:"payee,omitempty"`
	CheckNo     string        `yaml:"checkno,omitempty"`
	Notes       string        `yaml:"notes,omitempty"`
	Position    *int          `yaml:"position,omitempty"`
	Splits      []SplitRecord `yaml:"splits"`
}

// SplitRecord is one split. Amount is parsed text such as "USD 12.50" or "10/4".
type SplitRecord struct {
	Account    string `yaml:"account,omitempty"`
	Amount     string `yaml:"amount"`
	Memo       string `yaml:"memo,omitempty"`
	Reference  string `yaml:"reference,omitempty"`
	Reconciled string `yaml:"reconciled,omitempty"`
}

// AccountResolver finds the account a split record names.
type AccountResolver interface {
	ByName(name string) (*model.Account, bool)
}

// Decoder turns YAML records into transactions.
type Decoder struct {
	Parser   *amount.Parser
	Options  amount.ParseOptions
	Accounts AccountResolver
}

// Read decodes every transaction of a YAML document into l. Records with an
// explicit position keep it.
func (d *Decoder) Read(r io.Reader, l *List) error {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("reading transactions: %w", err)
	}
	for i, rec := range doc.Transactions {
		txn, err := d.Transaction(rec)
		if err != nil {
			return fmt.Errorf("transaction %d: %w", i+1, err)
		}
		l.Add(txn, rec.Position != nil)
	}
	return nil
}

// Transaction converts one record. Split amounts without a code take the
// currency of their account, then the decoder's default currency.
func (d *Decoder) Transaction(rec TransactionRecord) (*model.Transaction, error) {
	date, err := time.Parse(dateFormat, rec.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", rec.Date, err)
	}
	typ, err := model.ParseTransactionType(rec.Type)
	if err != nil {
		return nil, err
	}

	txn := model.NewTransaction(date)
	if rec.ID != "" {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("parsing id %q: %w", rec.ID, err)
		}
		txn.ID = id
	}
	txn.Type = typ
	txn.Description = rec.Description
	txn.Payee = rec.Payee
	txn.CheckNo = rec.CheckNo
	txn.Notes = rec.Notes
	if rec.Position != nil {
		txn.Position = *rec.Position
	}

	for i, sr := range rec.Splits {
		if err := d.addSplit(txn, sr); err != nil {
			return nil, fmt.Errorf("split %d: %w", i+1, err)
		}
	}
	return txn, nil
}

func (d *Decoder) addSplit(txn *model.Transaction, sr SplitRecord) error {
	opts := d.Options
	var account *model.Account
	if sr.Account != "" {
		if d.Accounts == nil {
			return fmt.Errorf("no chart of accounts to resolve %q", sr.Account)
		}
		a, ok := d.Accounts.ByName(sr.Account)
		if !ok {
			return fmt.Errorf("unknown account %q", sr.Account)
		}
		account = a
		if a.Currency != "" {
			opts.DefaultCurrency = a.Currency
		}
	}

	amt, err := d.Parser.Parse(sr.Amount, opts)
	if err != nil {
		return err
	}

	s := txn.AddSplit()
	// s belongs to txn, so the setters below cannot fail.
	_ = txn.SetSplitAmount(s, amt)
	_ = txn.SetSplitAccount(s, account)
	_ = txn.SetSplitMemo(s, sr.Memo)
	_ = txn.SetSplitReference(s, sr.Reference)
	if sr.Reconciled != "" {
		on, err := time.Parse(dateFormat, sr.Reconciled)
		if err != nil {
			return fmt.Errorf("parsing reconciled %q: %w", sr.Reconciled, err)
		}
		_ = txn.SetSplitReconciliationDate(s, &on)
	}
	return nil
}

// Record converts a transaction back to its YAML form using cfg separators.
func Record(txn *model.Transaction, cfg amount.FormatConfig) TransactionRecord {
	pos := txn.Position
	rec := TransactionRecord{
		ID:          txn.ID.String(),
		Type:        txn.Type.String(),
		Date:        txn.Date.Format(dateFormat),
		Description: txn.Description,
		Payee:       txn.Payee,
		CheckNo:     txn.CheckNo,
		Notes:       txn.Notes,
		Position:    &pos,
	}
	if txn.Type == model.TypeNormal {
		rec.Type = ""
	}
	for _, s := range txn.Splits() {
		sr := SplitRecord{
			Amount:    amount.Format(s.Amount(), cfg, amount.FormatOptions{ShowCurrency: true}),
			Memo:      s.Memo(),
			Reference: s.Reference(),
		}
		if a := s.Account(); a != nil {
			sr.Account = a.Name
		}
		if on := s.ReconciliationDate(); on != nil {
			sr.Reconciled = on.Format(dateFormat)
		}
		rec.Splits = append(rec.Splits, sr)
	}
	return rec
}

// Write encodes txns as a YAML document.
func Write(w io.Writer, txns []*model.Transaction, cfg amount.FormatConfig) error {
	doc := Document{Transactions: make([]TransactionRecord, 0, len(txns))}
	for _, txn := range txns {
		doc.Transactions = append(doc.Transactions, Record(txn, cfg))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}
	return enc.Close()
}
