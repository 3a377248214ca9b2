// Package notification sends best-effort e-mails about survey submissions and new document
// versions. Sends run in their own goroutine and never fail the request that caused them.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/document"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

const sendTimeout = 30 * time.Second

// Config addresses used by the service.
type Config struct {
	From      string
	AdminTo   string // empty disables admin notices
	BrandName string
}

// Service renders and dispatches notifications.
type Service struct {
	sender ports.MailSender
	cfg    Config
	log    *logger.Logger
	wg     sync.WaitGroup
}

// NewService builds the notification service.
func NewService(sender ports.MailSender, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{sender: sender, cfg: cfg, log: log.Component("notification")}
}

// SurveySubmitted confirms the application to the applicant and informs the admins.
func (s *Service) SurveySubmitted(fund *entity.Fund, profile *entity.Profile, member *entity.FundMember, newMember bool) {
	data := surveyData{
		Brand:     s.cfg.BrandName,
		FundName:  fund.Name,
		Name:      profile.Name,
		Email:     profile.Email,
		Phone:     profile.Phone,
		Units:     member.InvestmentUnits,
		Amount:    document.FormatAmount(parValue(fund).Mul(decimalUnits(member.InvestmentUnits))),
		NewMember: newMember,
	}
	if profile.Email != "" {
		s.send("survey_confirmation", []string{profile.Email},
			fmt.Sprintf("[%s] %s 출자 신청이 접수되었습니다", s.cfg.BrandName, fund.Name),
			surveyConfirmationTmpl, data)
	}
	if s.cfg.AdminTo != "" {
		s.send("survey_admin_notice", []string{s.cfg.AdminTo},
			fmt.Sprintf("[%s] %s 신규 출자 신청: %s", s.cfg.BrandName, fund.Name, profile.Name),
			surveyAdminTmpl, data)
	}
}

// DocumentGenerated informs the admins of a new document version.
func (s *Service) DocumentGenerated(fund *entity.Fund, doc *entity.GeneratedDocument) {
	if s.cfg.AdminTo == "" {
		return
	}
	data := documentData{
		Brand:    s.cfg.BrandName,
		FundName: fund.Name,
		Label:    doc.DocumentType.Label(),
		Version:  doc.VersionNumber,
		Template: doc.TemplateVersion,
		At:       doc.CreatedAt.In(kst).Format("2006-01-02 15:04"),
	}
	s.send("document_generated", []string{s.cfg.AdminTo},
		fmt.Sprintf("[%s] %s %s v%d 생성", s.cfg.BrandName, fund.Name, data.Label, doc.VersionNumber),
		documentGeneratedTmpl, data)
}

// Wait blocks until every dispatched message has been handled.
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) send(kind string, to []string, subject string, tmpl *template.Template, data any) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		s.log.Error().Err(err).Str("kind", kind).Msg("render notification")
		return
	}
	s.Dispatch(kind, ports.MailMessage{From: s.cfg.From, To: to, Subject: subject, HTML: body.String()})
}

// Dispatch sends msg in a goroutine with its own timeout, detached from the request.
// Failures are logged and not retried.
func (s *Service) Dispatch(kind string, msg ports.MailMessage) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		res, err := s.sender.Send(ctx, msg)
		if err != nil {
			s.log.Warn().Err(err).Str("kind", kind).Strs("to", msg.To).Msg("notification not delivered")
			return
		}
		s.log.Debug().Str("kind", kind).Strs("to", msg.To).Bool("delivered", res.Delivered).Bool("skipped", res.Skipped).Str("message_id", res.MessageID).Msg("notification handled")
	}()
}
