package Whatsapp

import (
	"MediDesk/Constants"
	"MediDesk/Models"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	whatsapp_chatbot_golang "github.com/green-api/whatsapp-chatbot-golang"
)

// Listen starts the green-api bot for inbound patient messages. Patients can
// text "BALANCE <UHID>" to get the outstanding amount of their open admission.
func Listen() {
	instanceID := os.Getenv("GREEN_API_INSTANCE_ID")
	apiToken := os.Getenv("GREEN_API_TOKEN")
	if instanceID == "" || apiToken == "" {
		log.Println("green-api credentials not set, inbound WhatsApp disabled")
		return
	}
	bot := whatsapp_chatbot_golang.NewBot(instanceID, apiToken)

	bot.SetStartScene(StartScene{})

	bot.StartReceivingNotifications()
}

type StartScene struct {
}

func (s StartScene) Start(bot *whatsapp_chatbot_golang.Bot) {
	bot.IncomingMessageHandler(func(message *whatsapp_chatbot_golang.Notification) {
		text, err := message.Text()
		if err != nil {
			return
		}
		reply, ok := HandleInbound(text)
		if ok {
			message.AnswerWithText(reply)
		}
	})
}

// HandleInbound parses an inbound message and builds a reply. Only the
// balance query is recognised.
func HandleInbound(text string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "BALANCE") {
		return "", false
	}
	uhid := strings.ToUpper(fields[1])

	patient, err := Models.GetPatientByUHID(Models.DB, uhid)
	if err != nil {
		return fmt.Sprintf("No patient found for UHID %s", uhid), true
	}

	var admission Models.IPDAdmission
	if err := Models.DB.Model(&Models.IPDAdmission{}).
		Where("patient_id = ? AND status = ?", patient.ID, Models.AdmissionOpen).
		First(&admission).Error; err != nil {
		return fmt.Sprintf("%s has no open admission", patient.Name), true
	}

	charges, payments, err := Models.AdmissionTotals(Models.DB, admission.ID)
	if err != nil {
		log.Println(err)
		return "", false
	}
	due := charges - admission.Deposit - payments
	return fmt.Sprintf("Balance for %s (%s): %.2f", patient.Name, uhid, due), true
}

func CheckLogin(c *gin.Context) {
	client := &http.Client{}

	url := Constants.WhatsappGoService + "/app/devices"
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	var output struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Results []struct {
			Name   string `json:"name"`
			Device string `json:"device"`
		}
	}
	if err = json.Unmarshal(body, &output); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if len(output.Results) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Not Logged In"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged In"})
}

func GetQRCode(c *gin.Context) {
	client := &http.Client{}

	urlLogin := Constants.WhatsappGoService + "/app/login"
	req, err := http.NewRequest(http.MethodGet, urlLogin, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	var output struct {
		Results struct {
			QRLink string `json:"qr_link"`
		} `json:"results"`
	}

	if err = json.Unmarshal(body, &output); err != nil {
		log.Println(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	req, err = http.NewRequest(http.MethodGet, output.Results.QRLink, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	res, err = client.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	defer res.Body.Close()

	body, err = io.ReadAll(res.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=qr.png")
	c.Data(http.StatusOK, "application/octet-stream", body)
}

// SendMessage posts a text message to the WhatsApp gateway. Failures are
// logged and returned, callers treat delivery as best effort.
func SendMessage(phone, message string) error {
	payload, err := json.Marshal(map[string]string{"phone": phone, "message": message})
	if err != nil {
		return err
	}

	urlSend := Constants.WhatsappGoService + "/send/message"
	req, err := http.NewRequest(http.MethodPost, urlSend, bytes.NewBuffer(payload))
	if err != nil {
		log.Println(err)
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	client := &http.Client{}
	res, err := client.Do(req)
	if err != nil {
		log.Println(err)
		return err
	}
	defer res.Body.Close()

	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		return err
	}
	return nil
}
