package remotesync

import (
	"strconv"

	"github.com/tidwall/gjson"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// firstOf returns the first present field among names.
func firstOf(v gjson.Result, names ...string) gjson.Result {
	for _, n := range names {
		if r := v.Get(n); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func parseArray(path string, body []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, &RemoteFormatError{Path: path, Reason: "body is not valid JSON"}
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, &RemoteFormatError{Path: path, Reason: "expected a JSON array"}
	}
	items := root.Array()
	for i, it := range items {
		if !it.IsObject() {
			return nil, &RemoteFormatError{Path: path, Reason: "element " + strconv.Itoa(i) + " is not an object"}
		}
	}
	return items, nil
}

func decodeProducts(path string, body []byte) ([]models.RemoteProduct, error) {
	items, err := parseArray(path, body)
	if err != nil {
		return nil, err
	}
	out := make([]models.RemoteProduct, 0, len(items))
	for _, it := range items {
		out = append(out, models.RemoteProduct{
			ID:          firstOf(it, "product_id", "id").String(),
			Name:        firstOf(it, "name", "title").String(),
			Price:       it.Get("price").Float(),
			Description: it.Get("description").String(),
			Quantity:    int(firstOf(it, "quantity", "qty").Int()),
			Image:       it.Get("image").String(),
		})
	}
	return out, nil
}

func decodeOrders(path string, body []byte) ([]models.Order, error) {
	items, err := parseArray(path, body)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(items))
	for _, it := range items {
		out = append(out, models.Order{
			OrderID:   firstOf(it, "order_id", "id").String(),
			ProductID: it.Get("product_id").String(),
			Quantity:  int(it.Get("quantity").Int()),
			Status:    it.Get("status").String(),
			UserID:    it.Get("user_id").String(),
			CreatedAt: it.Get("created_at").String(),
		})
	}
	return out, nil
}

func decodeConfirmation(path string, body []byte) (models.OrderConfirmation, error) {
	if !gjson.ValidBytes(body) {
		return models.OrderConfirmation{}, &RemoteFormatError{Path: path, Reason: "body is not valid JSON"}
	}
	v := gjson.ParseBytes(body)
	if !v.IsObject() || !v.Get("order_id").Exists() {
		return models.OrderConfirmation{}, &RemoteFormatError{Path: path, Reason: "missing order_id"}
	}
	return models.OrderConfirmation{
		Message:   v.Get("message").String(),
		OrderID:   v.Get("order_id").String(),
		ProductID: v.Get("product_id").String(),
		Quantity:  int(v.Get("quantity").Int()),
	}, nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from a failure body.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return firstOf(gjson.ParseBytes(body), "error", "message").String()
}
