package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/devisgym/gym_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendOTPCode 发送一次性验证码
func (s *Service) SendOTPCode(to, code, purpose string) error {
	action := "注册账号"
	if purpose == "password_reset" {
		action = "重置密码"
	}

	subject := "验证码 - 健身房预约平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">验证码</h2>
        <p>您好，</p>
        <p>您正在%s，验证码为：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
            %s
        </div>
        <p>验证码有效期为 10 分钟，请尽快完成验证。</p>
        <p>如果您没有进行此操作，请忽略此邮件。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, action, code)

	return s.sendHTML(to, subject, body)
}

// SendWelcome 注册成功后的欢迎邮件
func (s *Service) SendWelcome(to, username string) error {
	subject := "欢迎加入 - 健身房预约平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">欢迎加入！</h2>
        <p>您好，%s！</p>
        <p>感谢您注册健身房预约平台。</p>
        <p>现在您可以：</p>
        <ul>
            <li>选购订阅套餐并提交付款凭证</li>
            <li>预约每日训练时段</li>
            <li>接收到期提醒和场馆公告</li>
        </ul>
        <p>期待在场馆见到您！</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, username)

	return s.sendHTML(to, subject, body)
}

// SendSubscriptionConfirmed 付款核验通过后的订阅确认邮件
func (s *Service) SendSubscriptionConfirmed(to, username, planName, slotLabel, startDate, endDate string) error {
	subject := "订阅已生效 - 健身房预约平台"
	body := fmt.Sprintf(
		"您好，%s：\n\n"+
			"感谢订阅「%s」，付款已核验通过。\n"+
			"训练时段：%s\n"+
			"生效日期：%s\n"+
			"到期日期：%s\n\n"+
			"期待在场馆见到您！\n",
		username, planName, slotLabel, startDate, endDate)

	return s.sendPlain(to, subject, body)
}

// SendSubscriptionExpiringSoon 订阅即将到期提醒
func (s *Service) SendSubscriptionExpiringSoon(to, username, planName, slotLabel, endDate string) error {
	subject := "订阅即将到期 - 健身房预约平台"
	body := fmt.Sprintf(
		"您好，%s：\n\n"+
			"您订阅的「%s」将于 %s 到期。\n"+
			"训练时段：%s\n\n"+
			"如需继续训练，请及时续订。\n",
		username, planName, endDate, slotLabel)

	return s.sendPlain(to, subject, body)
}

// SendSubscriptionExpired 订阅到期通知
func (s *Service) SendSubscriptionExpired(to, username, planName, slotLabel, endDate string) error {
	subject := "订阅已到期 - 健身房预约平台"
	body := fmt.Sprintf(
		"您好，%s：\n\n"+
			"您订阅的「%s」已于 %s 到期。\n"+
			"原训练时段：%s\n\n"+
			"欢迎续订，继续您的训练计划。\n",
		username, planName, endDate, slotLabel)

	return s.sendPlain(to, subject, body)
}

// SendAppointmentConfirmed 预约成功确认邮件
func (s *Service) SendAppointmentConfirmed(to, username, date, slotLabel string) error {
	subject := "预约确认 - 健身房预约平台"
	body := fmt.Sprintf(
		"您好，%s：\n\n"+
			"您已预约 %s 到馆训练。\n"+
			"训练时段：%s\n\n"+
			"到时见！\n",
		username, date, slotLabel)

	return s.sendPlain(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	return s.send(to, subject, body, "text/html; charset=UTF-8")
}

// sendPlain 发送纯文本邮件
func (s *Service) sendPlain(to, subject, body string) error {
	return s.send(to, subject, body, "text/plain; charset=UTF-8")
}

func (s *Service) send(to, subject, body, contentType string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = contentType

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
