package notification

import (
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

var kst = time.FixedZone("KST", 9*60*60)

type surveyData struct {
	Brand     string
	FundName  string
	Name      string
	Email     string
	Phone     string
	Units     int
	Amount    string
	NewMember bool
}

type documentData struct {
	Brand    string
	FundName string
	Label    string
	Version  int
	Template string
	At       string
}

var surveyConfirmationTmpl = template.Must(template.New("survey_confirmation").Parse(`<!doctype html>
<html><body>
<p>{{.Name}}님, 안녕하세요.</p>
<p><strong>{{.FundName}}</strong> 출자 신청이 {{if .NewMember}}접수{{else}}변경{{end}}되었습니다.</p>
<table>
<tr><td>출자좌수</td><td>{{.Units}}좌</td></tr>
<tr><td>출자금액</td><td>{{.Amount}}원</td></tr>
</table>
<p>{{.Brand}} 드림</p>
</body></html>`))

var surveyAdminTmpl = template.Must(template.New("survey_admin").Parse(`<!doctype html>
<html><body>
<p>{{.FundName}}에 {{if .NewMember}}새 출자 신청{{else}}출자 변경{{end}}이 있습니다.</p>
<ul>
<li>성명: {{.Name}}</li>
<li>이메일: {{.Email}}</li>
<li>연락처: {{.Phone}}</li>
<li>출자: {{.Units}}좌 ({{.Amount}}원)</li>
</ul>
</body></html>`))

var documentGeneratedTmpl = template.Must(template.New("document_generated").Parse(`<!doctype html>
<html><body>
<p>{{.FundName}} {{.Label}} 버전 {{.Version}}이 생성되었습니다.</p>
<p>템플릿 {{.Template}} · {{.At}}</p>
</body></html>`))

func parValue(f *entity.Fund) decimal.Decimal {
	if f.ParValue.IsZero() {
		return entity.DefaultParValue
	}
	return f.ParValue
}

func decimalUnits(units int) decimal.Decimal { return decimal.NewFromInt(int64(units)) }
