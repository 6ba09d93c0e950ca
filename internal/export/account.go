package export

import (
	"encoding/json"
	"fmt"

	"github.com/parsascontentcorner/discordexport/internal/models"
)

var (
	accountRequired = []string{
		"id", "username", "discriminator", "email", "verified", "avatar_hash",
		"has_mobile", "needs_email_verification", "flags", "ip", "relationships",
	}
	relationshipRequired = []string{"id", "type", "user"}
	relationUserRequired = []string{"id", "username", "discriminator", "public_flags"}
)

// ReadAccount decodes account/user.json including its relationships.
func (p *Parser) ReadAccount() (*models.Account, error) {
	path := p.path("account", "user.json")

	raw, err := readJSONFile(path)
	if err != nil {
		return nil, err
	}
	if err := checkAccountShape(raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	var account models.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}

	for i, rel := range account.Relationships {
		if !rel.Type.IsValid() {
			return nil, fmt.Errorf("%w: %s: relationship %d: unknown relation type %d",
				ErrDecode, path, i, rel.Type)
		}
	}

	return &account, nil
}

func checkAccountShape(raw json.RawMessage) error {
	fields, err := objectWithKeys(raw, "account", accountRequired...)
	if err != nil {
		return err
	}

	var relationships []json.RawMessage
	if err := json.Unmarshal(fields["relationships"], &relationships); err != nil {
		return fmt.Errorf("account: relationships: %w", err)
	}

	for i, rel := range relationships {
		what := fmt.Sprintf("relationship %d", i)
		relFields, err := objectWithKeys(rel, what, relationshipRequired...)
		if err != nil {
			return err
		}
		if _, err := objectWithKeys(relFields["user"], what+" user", relationUserRequired...); err != nil {
			return err
		}
	}

	return nil
}
