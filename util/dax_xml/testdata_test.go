package dax_xml

// sampleDocument mimics a vendor DAX file: extra attributes, elements the
// model does not read, and presets under two profiles.
const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<dax_config version="1.0" vendor="acme">
  <!-- tuning for device X -->
  <profiles>
    <profile id="music" name="Music" group="media" dialog-enhancer="off">
      <preset id="music_ieq" type="ieq">
        <data>
          <ieq-bands count="10">
            <band_ieq frequency="47" target="0"/>
            <band_ieq frequency="141" target="0"/>
            <band_ieq frequency="328" target="0"/>
            <band_ieq frequency="656" target="0"/>
            <band_ieq frequency="1031" target="0"/>
            <band_ieq frequency="1688" target="0"/>
            <band_ieq frequency="3000" target="0"/>
            <band_ieq frequency="4688" target="0"/>
            <band_ieq frequency="7125" target="0"/>
            <band_ieq frequency="13875" target="0"/>
          </ieq-bands>
          <volume-leveler enable="true" amount="4"/>
        </data>
      </preset>
      <preset id="music_geq" type="geq">
        <data>
          <graphic-equalizer-bands>
            <band_geq frequency="47" gain="1.5"/>
            <band_geq frequency="141" gain="-2"/>
            <band_geq frequency="328" gain="0"/>
          </graphic-equalizer-bands>
        </data>
      </preset>
    </profile>
    <profile id="game" group="">
      <preset id="game_geq" type="geq">
        <data>
          <graphic-equalizer-bands>
            <band_geq frequency="47" gain="3.25"/>
            <band_geq frequency="abc" gain="1"/>
            <band_geq frequency="141Hz" gain="oops"/>
          </graphic-equalizer-bands>
        </data>
      </preset>
    </profile>
  </profiles>
</dax_config>
`
