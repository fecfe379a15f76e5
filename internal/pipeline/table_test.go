package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTextField(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
		err    error
	}{
		{"text column", []string{"cid", "text", "votes"}, "text", nil},
		{"comment column", []string{"Nama", "Rating", "Komentar", "comment"}, "comment", nil},
		{"substring match keeps case", []string{"author", "CommentText"}, "CommentText", nil},
		{"first match wins", []string{"comment_id", "text"}, "comment_id", nil},
		{"no match", []string{"review", "rating"}, "", ErrNoCommentField},
		{"no fields", nil, "", ErrNoCommentField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectTextField(tt.fields)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromTableYouTubeColumns(t *testing.T) {
	table := Table{
		Source: "youtube",
		Fields: []string{"cid", "text", "time", "author", "votes"},
		Rows: []map[string]string{
			{"cid": "Ugx1", "text": "Mantap!", "time": "2 hari lalu", "author": "@budi", "votes": "1,2rb"},
			{"cid": "", "text": "jelek", "votes": "x"},
		},
	}

	comments, err := FromTable(table, "")
	require.NoError(t, err)
	require.Len(t, comments, 2)

	first := comments[0]
	assert.Equal(t, "Ugx1", first.ID)
	assert.Equal(t, "youtube", first.Source)
	assert.Equal(t, "Mantap!", first.Text)
	assert.Equal(t, "@budi", first.Metadata.Author)
	assert.Equal(t, "2 hari lalu", first.Metadata.Time)
	assert.Equal(t, 1200, first.Metadata.Likes)

	assert.Equal(t, ContentID("youtube", "jelek"), comments[1].ID)
	assert.Equal(t, 0, comments[1].Metadata.Likes)
}

func TestFromTableExplicitPrimary(t *testing.T) {
	table := Table{
		Source: "maps",
		Fields: []string{"Username", "Rating", "review", "Date"},
		Rows: []map[string]string{
			{"Username": "Sari", "Rating": "5 bintang", "review": "pelayanan bagus", "Date": "2024-01-02"},
		},
	}

	_, err := FromTable(table, "")
	assert.ErrorIs(t, err, ErrNoCommentField)

	comments, err := FromTable(table, "review")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "pelayanan bagus", comments[0].Text)
	assert.Equal(t, "Sari", comments[0].Metadata.Author)
	assert.Equal(t, "5 bintang", comments[0].Metadata.Rating)
	assert.Equal(t, "2024-01-02", comments[0].Metadata.Time)

	_, err = FromTable(table, "komentar")
	assert.ErrorIs(t, err, ErrNoCommentField)
}

func TestContentID(t *testing.T) {
	a := ContentID("tiktok", "keren banget")
	assert.Len(t, a, 36)
	assert.Equal(t, a, ContentID("tiktok", "keren banget"))
	assert.NotEqual(t, a, ContentID("youtube", "keren banget"))
	assert.NotEqual(t, a, ContentID("tiktok", "keren"))
}

func TestFromTablePrimaryNotReusedAsMetadata(t *testing.T) {
	table := Table{
		Fields: []string{"id", "author"},
		Rows:   []map[string]string{{"id": "1", "author": "teks komentar"}},
	}

	comments, err := FromTable(table, "author")
	require.NoError(t, err)
	assert.Equal(t, "teks komentar", comments[0].Text)
	assert.Empty(t, comments[0].Metadata.Author)
	assert.Equal(t, "1", comments[0].ID)
}
