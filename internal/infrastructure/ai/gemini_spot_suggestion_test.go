package ai

import (
	"Meguri-App/internal/domain/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestedSpots(t *testing.T) {
	t.Run("素のJSON配列をパースできる", func(t *testing.T) {
		content := `[
			{"name": "東京駅", "description": "日本の玄関口", "point": "赤レンガ駅舎"},
			{"name": "皇居", "description": "旧江戸城", "point": "二重橋"},
			{"name": "銀座", "description": "ショッピング街", "point": "歩行者天国"}
		]`

		spots, err := parseSuggestedSpots(content, "東京駅")
		require.NoError(t, err)
		require.Len(t, spots, 3)

		// 先頭がstart、末尾がdestination、中間はwaypoint
		assert.Equal(t, model.SpotTypeStart, spots[0].Type)
		assert.Equal(t, model.SpotTypeWaypoint, spots[1].Type)
		assert.Equal(t, model.SpotTypeDestination, spots[2].Type)

		assert.Equal(t, "東京駅", spots[0].Name)
		assert.Equal(t, "旧江戸城", spots[1].Description)
		assert.Equal(t, "歩行者天国", spots[2].Point)
	})

	t.Run("コードフェンス付きの応答をパースできる", func(t *testing.T) {
		content := "はい、スポット候補を生成しました。\n```json\n" +
			`[{"name": "東京駅", "description": "", "point": ""}, {"name": "銀座", "description": "", "point": ""}]` +
			"\n```\n以上です。"

		spots, err := parseSuggestedSpots(content, "東京駅")
		require.NoError(t, err)
		assert.Len(t, spots, 2)
	})

	t.Run("先頭のスポット名は出発地点に揃える", func(t *testing.T) {
		content := `[{"name": "東京駅（丸の内口）", "description": "", "point": ""}, {"name": "銀座", "description": "", "point": ""}]`

		spots, err := parseSuggestedSpots(content, "東京駅")
		require.NoError(t, err)
		assert.Equal(t, "東京駅", spots[0].Name)
	})

	t.Run("空の名前のスポットは除外される", func(t *testing.T) {
		content := `[{"name": "東京駅"}, {"name": "  "}, {"name": "銀座"}]`

		spots, err := parseSuggestedSpots(content, "東京駅")
		require.NoError(t, err)
		require.Len(t, spots, 2)
		assert.Equal(t, "東京駅", spots[0].Name)
		assert.Equal(t, "銀座", spots[1].Name)
	})

	t.Run("JSON配列を含まない応答はエラー", func(t *testing.T) {
		spots, err := parseSuggestedSpots("申し訳ありませんが、生成できませんでした。", "東京駅")
		assert.Nil(t, spots)
		assert.Error(t, err)
	})

	t.Run("不正なJSONはエラー", func(t *testing.T) {
		spots, err := parseSuggestedSpots(`[{"name": "東京駅",]`, "東京駅")
		assert.Nil(t, spots)
		assert.Error(t, err)
	})

	t.Run("スポットが2件未満ならエラー", func(t *testing.T) {
		spots, err := parseSuggestedSpots(`[{"name": "東京駅"}]`, "東京駅")
		assert.Nil(t, spots)
		assert.Error(t, err)
	})
}

func TestExtractJSONArray(t *testing.T) {
	t.Run("前後の説明文を除去する", func(t *testing.T) {
		assert.Equal(t, `[{"name": "a"}]`, extractJSONArray("結果: [{\"name\": \"a\"}] です"))
	})

	t.Run("配列がない場合は空文字列", func(t *testing.T) {
		assert.Equal(t, "", extractJSONArray("配列なし"))
		assert.Equal(t, "", extractJSONArray("] 逆順 ["))
	})
}
