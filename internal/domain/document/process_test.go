package document_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

func sampleContext() *document.Context {
	return &document.Context{
		DocumentType: "lpa",
		Fund: document.FundContext{
			Name:     "알파 1호 투자조합",
			TotalCap: "100,000,000",
			Duration: 5,
			Account:  document.AccountInfo{Bank: "신한은행"},
		},
		Members: []document.MemberContext{
			{No: 1, Name: "홍길동", Units: 10, Amount: "10,000,000"},
			{No: 2, Name: "(주)스누", Units: 5, Amount: "5,000,000"},
		},
	}
}

func TestProcess_SubstitutesPlaceholdersAndTables(t *testing.T) {
	values, err := sampleContext().Values()
	require.NoError(t, err)

	content := entity.TemplateContent{
		Title: "{{ fund.name }} 규약",
		Sections: []entity.TemplateSection{
			{ID: "cap", Title: "제5조", Body: "출자총액은 {{fund.total_cap}}원, 존속기간 {{fund.duration}}년, {{fund.account.bank}}"},
			{ID: "unknown", Body: "{{fund.nope}} 그대로"},
			{ID: "members", Title: "조합원", Table: &entity.TemplateTable{
				Source:  "members",
				Columns: []entity.TableColumn{{Key: "no", Label: "번호"}, {Key: "name", Label: "성명"}, {Key: "amount", Label: "출자금액"}},
			}},
		},
		Footer: "첫 조합원: {{members.0.name}}",
	}

	out := document.Process(content, values)

	assert.Equal(t, "알파 1호 투자조합 규약", out.Title)
	require.Len(t, out.Sections, 3)
	assert.Equal(t, "출자총액은 100,000,000원, 존속기간 5년, 신한은행", out.Sections[0].Body)
	assert.Equal(t, "{{fund.nope}} 그대로", out.Sections[1].Body)
	assert.Equal(t, []string{"번호", "성명", "출자금액"}, out.Sections[2].Columns)
	assert.Equal(t, [][]string{{"1", "홍길동", "10,000,000"}, {"2", "(주)스누", "5,000,000"}}, out.Sections[2].Rows)
	assert.Equal(t, "첫 조합원: 홍길동", out.Footer)
}

func TestProcess_MissingTableSource(t *testing.T) {
	out := document.Process(entity.TemplateContent{
		Sections: []entity.TemplateSection{{ID: "t", Table: &entity.TemplateTable{Source: "nothing", Columns: []entity.TableColumn{{Key: "a", Label: "A"}}}}},
	}, map[string]any{})
	require.Len(t, out.Sections, 1)
	assert.Equal(t, []string{"A"}, out.Sections[0].Columns)
	assert.Empty(t, out.Sections[0].Rows)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,000,000", document.FormatAmount(decimal.NewFromInt(1_000_000)))
	assert.Equal(t, "0", document.FormatAmount(decimal.Zero))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", document.Stringify(nil))
	assert.Equal(t, "3", document.Stringify(float64(3)))
	assert.Equal(t, "1.5", document.Stringify(1.5))
	assert.Equal(t, "예", document.Stringify(true))
	assert.Equal(t, "a, b", document.Stringify([]any{"a", "b"}))
}
