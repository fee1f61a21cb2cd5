package legacy

import "context"

// DefaultTablePrefix is prepended to forum table names.
const DefaultTablePrefix = "GDN_"

// selectRecord appends the shared record columns. Every clause must select
// the same columns in the same order for the union to line up.
func selectRecord(c *Clause, primaryID, title, summary, formatCol, categoryID, dateInserted, userID, recordType string) {
	c.Select(primaryID, "PrimaryID").
		Select(title, "Title").
		Select(summary, "Summary").
		Select(formatCol, "Format").
		Select(categoryID, "CategoryID").
		Select(dateInserted, "DateInserted").
		Select(userID, "UserID").
		Select("'"+recordType+"'", "RecordType")
}

// DiscussionSource matches thread titles and opening posts.
type DiscussionSource struct {
	TablePrefix string
}

// Contribute adds the discussion clause.
func (s DiscussionSource) Contribute(_ context.Context, m *Model) error {
	c := NewClause(prefix(s.TablePrefix) + "Discussion d")
	m.AddMatchClause(c, []string{"d.Name", "d.Body"}, "")
	selectRecord(c, "d.DiscussionID", "d.Name", "d.Body", "d.Format", "d.CategoryID",
		"d.DateInserted", "d.InsertUserID", "Discussion")
	m.AddSearch(c)
	return nil
}

// CommentSource matches replies, titled by their thread.
type CommentSource struct {
	TablePrefix string
}

// Contribute adds the comment clause.
func (s CommentSource) Contribute(_ context.Context, m *Model) error {
	p := prefix(s.TablePrefix)
	c := NewClause(p + "Comment c").
		Join("join " + p + "Discussion d on d.DiscussionID = c.DiscussionID")
	m.AddMatchClause(c, []string{"c.Body"}, "")
	selectRecord(c, "c.CommentID", "d.Name", "c.Body", "c.Format", "d.CategoryID",
		"c.DateInserted", "c.InsertUserID", "Comment")
	m.AddSearch(c)
	return nil
}

func prefix(p string) string {
	if p == "" {
		return DefaultTablePrefix
	}
	return p
}
