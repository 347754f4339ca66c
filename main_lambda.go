//go:build lambda

package main

import (
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/tidwall/gjson"
)

//go:embed data/towers.json data/enemies.json data/cards.json
var embeddedData embed.FS

var catalog = mustLoadEmbedded()

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type optimizeResult struct {
	Result *Result `json:"result"`
	TimeMs int64   `json:"timeMs"`
	Detail string  `json:"detail"`
}

func mustLoadEmbedded() *Catalog {
	read := func(name string) string {
		b, err := embeddedData.ReadFile("data/" + name)
		if err != nil {
			panic(err)
		}
		return string(b)
	}
	return loadCatalogFromStrings(read(towersFile), read(enemiesFile), read(cardsFile))
}

// handler accepts {"enemies": [...], "towers": [...], "loadout": {...}, "mode": "..."}.
func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}
	if !gjson.Valid(body) {
		return errResp(400, "invalid JSON")
	}

	root := gjson.Parse(body)
	mode, err := ParseMode(root.Get("mode").String())
	if err != nil {
		return errResp(400, err.Error())
	}
	req := Request{
		Enemies: readStrings(root.Get("enemies")),
		Towers:  readStrings(root.Get("towers")),
		Loadout: parseLoadout(root.Get("loadout")),
		Mode:    mode,
	}

	res, err := runRequest(catalog, req, DefaultConfig())
	switch {
	case errors.Is(err, ErrUnknownEnemy), errors.Is(err, ErrUnknownTower):
		return errResp(404, err.Error())
	case err != nil:
		return errResp(400, err.Error())
	}

	out := optimizeResult{Result: res, TimeMs: res.Elapsed.Milliseconds(), Detail: FormatResult(res)}
	respJSON, _ := json.Marshal(out)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
