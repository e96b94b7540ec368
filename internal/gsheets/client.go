// Package gsheets выгружает журнал посещений в Google Sheets.
// Синхронизация необязательна: без учётных данных клиент не создаётся,
// а её ошибки никогда не показываются пользователям бота.
package gsheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"gymbot/internal/models"
)

// Client клиент для работы с Google Sheets
type Client struct {
	sheets        *sheets.Service
	spreadsheetID string
}

// NewClient создаёт клиент по сервисным учётным данным
func NewClient(credentialsPath, spreadsheetID string) (*Client, error) {
	ctx := context.Background()

	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Sheets сервиса: %w", err)
	}

	return &Client{sheets: srv, spreadsheetID: spreadsheetID}, nil
}

// PushJournal перезаписывает лист журнала свежими строками посещений
func (c *Client) PushJournal(journal []models.JournalRow) error {
	ctx := context.Background()

	values := make([][]interface{}, 0, len(journal)+1)
	values = append(values, []interface{}{"Дата", "Имя"})
	for _, row := range journal {
		values = append(values, []interface{}{
			row.VisitDate.Format("02.01.2006"),
			row.Name,
		})
	}

	// Чистим лист, чтобы хвост старого журнала не оставался под новым
	_, err := c.sheets.Spreadsheets.Values.Clear(
		c.spreadsheetID, "A:B", &sheets.ClearValuesRequest{},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ошибка очистки листа: %w", err)
	}

	_, err = c.sheets.Spreadsheets.Values.Update(
		c.spreadsheetID, "A1",
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ошибка записи журнала: %w", err)
	}

	return nil
}
